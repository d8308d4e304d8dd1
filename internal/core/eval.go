package core

import "strconv"

// EvalExpr evaluates a calculator-style expression built from digits, ".",
// and the operators + - * /. It backs a live keypad, so it never fails:
// malformed or empty input evaluates to 0, division by zero yields 0, and
// the result is rounded to 2 decimals with SafeRound.
//
// Unary minus binds tightest; * and / beat + and -; binary operators are
// left-associative. Evaluation goes through shunting-yard to postfix.
func EvalExpr(expr string) float64 {
	tokens := tokenize(expr)
	if len(tokens) == 0 {
		return 0
	}
	return SafeRound(evalPostfix(toPostfix(markUnary(tokens))))
}

const unaryMinus = "u-"

func tokenize(expr string) []string {
	var tokens []string
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c >= '0' && c <= '9' || c == '.':
			j := i + 1
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			tokens = append(tokens, expr[i:j])
			i = j
		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, string(c))
			i++
		default:
			// whitespace and anything else is skipped
			i++
		}
	}
	return tokens
}

// markUnary rewrites a "-" as unary negation when it starts the expression
// or follows another operator (including another unary minus).
func markUnary(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "-" && (len(out) == 0 || isOperator(out[len(out)-1])) {
			out = append(out, unaryMinus)
			continue
		}
		out = append(out, t)
	}
	return out
}

var precedence = map[string]int{
	unaryMinus: 3,
	"*":        2,
	"/":        2,
	"+":        1,
	"-":        1,
}

func isOperator(t string) bool {
	_, ok := precedence[t]
	return ok
}

func toPostfix(tokens []string) []string {
	var out, ops []string
	for _, t := range tokens {
		if !isOperator(t) {
			out = append(out, t)
			continue
		}
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			// unary minus is right-associative
			if t == unaryMinus {
				if precedence[top] <= precedence[t] {
					break
				}
			} else if precedence[top] < precedence[t] {
				break
			}
			out = append(out, top)
			ops = ops[:len(ops)-1]
		}
		ops = append(ops, t)
	}
	for len(ops) > 0 {
		out = append(out, ops[len(ops)-1])
		ops = ops[:len(ops)-1]
	}
	return out
}

func evalPostfix(postfix []string) float64 {
	var stack []float64
	pop := func() float64 {
		if len(stack) == 0 {
			return 0
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
	for _, t := range postfix {
		if !isOperator(t) {
			n, err := strconv.ParseFloat(t, 64)
			if err != nil {
				n = 0
			}
			stack = append(stack, n)
			continue
		}
		if t == unaryMinus {
			stack = append(stack, -pop())
			continue
		}
		b := pop()
		a := pop()
		switch t {
		case "+":
			stack = append(stack, a+b)
		case "-":
			stack = append(stack, a-b)
		case "*":
			stack = append(stack, a*b)
		case "/":
			if b == 0 {
				stack = append(stack, 0)
			} else {
				stack = append(stack, a/b)
			}
		}
	}
	return pop()
}
