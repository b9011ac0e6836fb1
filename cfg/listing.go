package cfg

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ListingEntry is one line of a block listing read back by ParseListing.
type ListingEntry struct {
	Address  int
	Mnemonic string
	Operand  string
}

// ParseListing reads the entries of one or more block listings, as written
// by Block.String(). Blank lines and lines starting with ';' are skipped.
// Quoted names and operands are unquoted; runs of spaces inside an unquoted
// operand collapse to one space.
func ParseListing(input io.Reader) (entries []ListingEntry, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrListingSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		words := strings.Fields(line)
		if len(words) == 0 || strings.HasPrefix(words[0], ";") {
			continue
		}
		if len(words) < 2 {
			err = ErrListingShort
			return
		}

		addr, perr := strconv.ParseInt(words[0], 0, 64)
		if perr != nil {
			err = ErrListingAddress
			return
		}

		rest := strings.TrimSpace(line)[len(words[0]):]

		var entry ListingEntry
		entry.Address = int(addr)
		entry.Mnemonic, rest, err = cutListingWord(rest)
		if err != nil {
			return
		}
		entry.Operand, err = parseListingOperand(rest)
		if err != nil {
			return
		}

		entries = append(entries, entry)
	}

	err = scanner.Err()

	return
}

// cutListingWord splits the first word, quoted or bare, off text.
func cutListingWord(text string) (word string, rest string, err error) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	if strings.HasPrefix(text, `"`) {
		var quoted string
		quoted, err = strconv.QuotedPrefix(text)
		if err != nil {
			err = ErrListingQuote
			return
		}
		word, err = strconv.Unquote(quoted)
		if err != nil {
			err = ErrListingQuote
			return
		}
		rest = text[len(quoted):]
		return
	}

	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		word = text
		return
	}

	word, rest = text[:end], text[end:]
	return
}

// parseListingOperand reads the operand column, which is either one quoted
// string or the remaining words.
func parseListingOperand(text string) (operand string, err error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, `"`) {
		operand = strings.Join(strings.Fields(text), " ")
		return
	}

	var rest string
	operand, rest, err = cutListingWord(text)
	if err != nil {
		return
	}
	if len(strings.TrimSpace(rest)) != 0 {
		err = ErrListingQuote
	}
	return
}
