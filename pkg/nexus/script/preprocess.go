package script

// kwPrefix marks keyword tokens rewritten into string literals by
// preprocess. Builtins strip it when parsing arguments.
const kwPrefix = "__kw_"

// preprocess rewrites node-definition source before it reaches zygomys:
//
//  1. :keyword tokens become "__kw_keyword" string literals, so keywords
//     need no global symbol registration and cannot shadow user variables.
//  2. Hyphens inside identifiers become underscores (show-float ->
//     show_float); zygomys reads a bare hyphen as subtraction.
//  3. ; line comments become // comments, zygomys's comment syntax.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocess(source string) string {
	var s scanner
	s.src = []byte(source)
	s.out = make([]byte, 0, len(source)+len(source)/4)

	for !s.done() {
		switch {
		case s.peek() == '"':
			s.copyString('"')
		case s.peek() == '`':
			s.copyString('`')
		case s.peek() == ';':
			s.rewriteComment()
		case s.peek() == ':':
			s.rewriteKeyword()
		case s.peek() == '-':
			s.rewriteHyphen()
		default:
			s.copy()
		}
	}
	return string(s.out)
}

// scanner walks the source byte-wise, emitting into out.
type scanner struct {
	src []byte
	out []byte
	pos int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	return s.src[s.pos]
}

func (s *scanner) copy() {
	s.out = append(s.out, s.src[s.pos])
	s.pos++
}

// copyString copies a quoted literal verbatim, honoring backslash
// escapes inside double quotes.
func (s *scanner) copyString(quote byte) {
	s.copy()
	for !s.done() && s.peek() != quote {
		if quote == '"' && s.peek() == '\\' && s.pos+1 < len(s.src) {
			s.out = append(s.out, s.src[s.pos], s.src[s.pos+1])
			s.pos += 2
			continue
		}
		s.copy()
	}
	if !s.done() {
		s.copy()
	}
}

// rewriteComment turns a ; (or ;;) line comment into a // comment.
func (s *scanner) rewriteComment() {
	s.out = append(s.out, '/', '/')
	for !s.done() && s.peek() == ';' {
		s.pos++
	}
	for !s.done() && s.peek() != '\n' {
		s.copy()
	}
}

// rewriteKeyword turns :name into "__kw_name". The := assignment
// operator is preserved.
func (s *scanner) rewriteKeyword() {
	if s.pos+1 >= len(s.src) || s.src[s.pos+1] == '=' {
		s.copy()
		if !s.done() && s.peek() == '=' {
			s.copy()
		}
		return
	}
	if !isLetter(s.src[s.pos+1]) {
		s.copy()
		return
	}
	end := s.pos + 1
	for end < len(s.src) && isKeywordChar(s.src[end]) {
		end++
	}
	name := s.src[s.pos+1 : end]
	s.out = append(s.out, '"')
	s.out = append(s.out, kwPrefix...)
	s.out = append(s.out, name...)
	s.out = append(s.out, '"')
	s.pos = end
}

// rewriteHyphen replaces an identifier-internal hyphen with an
// underscore, leaving minus operators alone.
func (s *scanner) rewriteHyphen() {
	if s.pos > 0 && s.pos+1 < len(s.src) &&
		isIdentChar(s.src[s.pos-1]) && isLetter(s.src[s.pos+1]) {
		s.out = append(s.out, '_')
		s.pos++
		return
	}
	s.copy()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKeywordChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
