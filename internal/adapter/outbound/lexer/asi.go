package lexer

// InsertSemicolon reports whether an automatic semicolon may end a statement right
// before next. A semicolon is implied before '}' and at end of input; otherwise only
// after a line break, and only when next cannot continue the previous line.
func InsertSemicolon(next Token) bool {
	if next.Kind == KindEOF || next.Is("}") {
		return true
	}
	if !next.NewlineBefore {
		return false
	}
	switch next.Kind {
	case KindPunct:
		switch next.Text[0] {
		case ',', '.', ':', ';', '*', '%', '>', '<', '=', '[', '(', '?', '^', '|', '&', '/':
			return false
		case '+', '-':
			return next.Text == "++" || next.Text == "--"
		case '!':
			return next.Text != "!=" && next.Text != "!=="
		}
	case KindWord:
		return next.Text != "in" && next.Text != "instanceof"
	}
	return true
}
