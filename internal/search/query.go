package search

// The query mini-language: whitespace-separated terms combined as AND.
// "..." spans are case-sensitive exact substrings, /.../ spans are regex
// patterns, bare words are case-insensitive substrings. Inside a quoted
// span a slash is literal and vice versa. The operator words AND, OR and
// NOT are recognized and dropped without changing how filters combine —
// everything is still AND. That asymmetry is kept deliberately so query
// strings written against the existing behavior keep meaning the same
// thing.

// ParseQuery builds a SearchFilter from a query string. An empty or
// all-whitespace query yields an empty filter matching everything.
func ParseQuery(query string) *SearchFilter {
	f := NewFilter()
	for _, token := range tokenize(query) {
		switch {
		case len(token) >= 2 && token[0] == '/' && token[len(token)-1] == '/':
			f.AddKeyword(token[1:len(token)-1], false, true)
		case len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"':
			f.AddKeyword(token[1:len(token)-1], true, false)
		case token == "AND" || token == "OR" || token == "NOT":
			// Operator words are recognized but carry no semantics yet.
		case token != "":
			f.AddKeyword(token, false, false)
		}
	}
	return f
}

// tokenize splits on whitespace while keeping "..." and /.../ spans
// atomic. Quote and slash states are mutually exclusive: once inside one,
// the other delimiter is literal.
func tokenize(query string) []string {
	var tokens []string
	var current []rune
	inQuotes := false
	inRegex := false

	for _, ch := range query {
		switch {
		case ch == '"' && !inRegex:
			inQuotes = !inQuotes
			current = append(current, ch)
		case ch == '/' && !inQuotes:
			inRegex = !inRegex
			current = append(current, ch)
		case isSpace(ch) && !inQuotes && !inRegex:
			if len(current) > 0 {
				tokens = append(tokens, string(current))
				current = current[:0]
			}
		default:
			current = append(current, ch)
		}
	}
	if len(current) > 0 {
		tokens = append(tokens, string(current))
	}
	return tokens
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
