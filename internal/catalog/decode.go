// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/metrics"
)

// DecodeStatus tags the outcome of DecodeList.
type DecodeStatus int

const (
	// Empty means no stage could parse the input; Values is nil.
	Empty DecodeStatus = iota
	// Parsed means a structured stage succeeded; Values may still be empty.
	Parsed
)

func (s DecodeStatus) String() string {
	if s == Parsed {
		return "parsed"
	}
	return "empty"
}

// Decoded is the tagged result of decoding a serialized list field.
type Decoded[T any] struct {
	Status DecodeStatus
	Values []T
}

var (
	decodedJSON    = metrics.DecodeResults.WithLabelValues("json")
	decodedLiteral = metrics.DecodeResults.WithLabelValues("literal")
	decodedEmpty   = metrics.DecodeResults.WithLabelValues("empty")
)

// DecodeList decodes a serialized sequence. It tries strict JSON, then the
// permissive literal form, then gives up with an Empty result. It never
// returns an error.
func DecodeList[T any](raw string) Decoded[T] {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		decodedEmpty.Inc()
		return Decoded[T]{Status: Empty}
	}

	var values []T
	if err := json.Unmarshal([]byte(raw), &values); err == nil {
		decodedJSON.Inc()
		return Decoded[T]{Status: Parsed, Values: values}
	}

	if converted, ok := literalToJSON(raw); ok {
		values = nil
		if err := json.Unmarshal(converted, &values); err == nil {
			decodedLiteral.Inc()
			return Decoded[T]{Status: Parsed, Values: values}
		}
	}

	decodedEmpty.Inc()
	return Decoded[T]{Status: Empty}
}

// DecodeIDs decodes a serialized list of integer ids. Elements may be
// numbers or numeric strings; anything else is dropped.
func DecodeIDs(raw string) []int {
	decoded := DecodeList[any](raw)
	if decoded.Status == Empty || len(decoded.Values) == 0 {
		return nil
	}

	ids := make([]int, 0, len(decoded.Values))
	for _, v := range decoded.Values {
		switch x := v.(type) {
		case float64:
			if x == math.Trunc(x) && !math.IsInf(x, 0) {
				ids = append(ids, int(x))
			}
		case string:
			if id, ok := parseID(x); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// DecodeReviews decodes a serialized review list. Entries without text are
// dropped.
func DecodeReviews(raw string) []Review {
	decoded := DecodeList[Review](raw)
	if decoded.Status == Empty {
		return nil
	}
	reviews := make([]Review, 0, len(decoded.Values))
	for _, r := range decoded.Values {
		if r.Text != "" {
			reviews = append(reviews, r)
		}
	}
	return reviews
}

// EncodeReviews renders reviews as canonical JSON text. No reviews encode as "[]".
func EncodeReviews(reviews []Review) string {
	if len(reviews) == 0 {
		return "[]"
	}
	b, err := json.Marshal(reviews)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// literalToJSON rewrites a permissive literal sequence into JSON:
// single-quoted strings become double-quoted, tuples become arrays,
// None/True/False become null/true/false and trailing commas are removed.
// It reports false for unterminated strings.
func literalToJSON(raw string) ([]byte, bool) {
	out := make([]byte, 0, len(raw)+8)
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '\'' || c == '"':
			end, ok := appendQuoted(&out, raw, i)
			if !ok {
				return nil, false
			}
			i = end
			continue
		case c == '(':
			out = append(out, '[')
		case c == ')' || c == ']' || c == '}':
			out = trimTrailingComma(out)
			if c == ')' {
				c = ']'
			}
			out = append(out, c)
		case isIdentStart(c):
			j := i
			for j < len(raw) && isIdentPart(raw[j]) {
				j++
			}
			switch word := raw[i:j]; word {
			case "None":
				out = append(out, "null"...)
			case "True":
				out = append(out, "true"...)
			case "False":
				out = append(out, "false"...)
			default:
				out = append(out, word...)
			}
			i = j
			continue
		default:
			out = append(out, c)
		}
		i++
	}
	return out, true
}

// appendQuoted copies the string literal starting at raw[start] to out as a
// JSON string and returns the index after the closing quote.
func appendQuoted(out *[]byte, raw string, start int) (int, bool) {
	quote := raw[start]
	*out = append(*out, '"')
	i := start + 1
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == quote:
			*out = append(*out, '"')
			return i + 1, true
		case c == '\\' && i+1 < len(raw):
			next := raw[i+1]
			switch next {
			case '\'':
				*out = append(*out, '\'')
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				*out = append(*out, '\\', next)
			case 'u':
				*out = append(*out, '\\', 'u')
			case 'x':
				if i+3 < len(raw) {
					*out = append(*out, '\\', 'u', '0', '0', raw[i+2], raw[i+3])
					i += 4
					continue
				}
				*out = append(*out, 'x')
			default:
				*out = append(*out, next)
			}
			i += 2
			continue
		case c == '"':
			*out = append(*out, '\\', '"')
		case c < 0x20:
			*out = append(*out, ' ')
		default:
			*out = append(*out, c)
		}
		i++
	}
	return 0, false
}

func trimTrailingComma(out []byte) []byte {
	end := len(out)
	for end > 0 && isSpace(out[end-1]) {
		end--
	}
	if end > 0 && out[end-1] == ',' {
		return out[:end-1]
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// NormalizeYear extracts a release year. A leading four-digit run wins
// ("1999-05-01" is 1999); otherwise the value is parsed as a number.
// Negative, fractional-garbage and unparseable values are 0.
func NormalizeYear(raw string) int {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 4 && allDigits(raw[:4]) && (len(raw) == 4 || !isDigit(raw[4])) {
		year, _ := strconv.Atoi(raw[:4])
		return year
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseID parses an integer key. Float spellings such as "12.0" are accepted
// since tabular exports often widen integer columns.
func parseID(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(raw); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// parseDuration parses a watch duration. Bad or negative values are 0.
func parseDuration(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp parses a log timestamp. Unknown layouts yield the zero time.
func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
