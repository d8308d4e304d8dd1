package core

// DefaultCategories is the seed set every fresh database starts with.
// "Other" doubles as the fallback for unknown names in CategoryMeta.
var DefaultCategories = []Category{
	{Name: "Drinks", Icon: "wine", ColorKey: "peach"},
	{Name: "Shopping", Icon: "cart", ColorKey: "lavender"},
	{Name: "Bills", Icon: "receipt", ColorKey: "sapphire"},
	{Name: "Food", Icon: "restaurant", ColorKey: "red"},
	{Name: "Transport", Icon: "bus", ColorKey: "blue"},
	{Name: "Entertainment", Icon: "film", ColorKey: "mauve"},
	{Name: "Groceries", Icon: "cart", ColorKey: "green"},
	{Name: "Health", Icon: "bandage", ColorKey: "teal"},
	{Name: "Other", Icon: "pricetag", ColorKey: "sky"},
}

// CategoryMeta returns display metadata for a category name. Unknown names
// resolve to the "Other" entry; this is a normal case, not an error.
func CategoryMeta(name string) Category {
	var other Category
	for _, c := range DefaultCategories {
		if c.Name == name {
			return c
		}
		if c.Name == "Other" {
			other = c
		}
	}
	return other
}
