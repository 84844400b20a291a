// Copyright 2025 goat Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token

// This file implements the numeric string-to-value utilities the
// tokenizer relies on. They are intentionally hand-written rather than
// routed through strconv: the source grammar allows `_` as a visual digit
// separator and a trailing `f`/`F` float suffix, neither of which
// strconv's parsers accept, so there is no stdlib shortcut here.

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseDecimalInt parses a base-10 signed 32-bit integer from a decimal
// literal, skipping `_` separators. It mirrors thrive_strtol's decimal
// path (base 10 is always used by the tokenizer's decimal branch).
func parseDecimalInt(s string) int32 {
	var result int32
	sign := int32(1)
	i := 0

	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}

	for ; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			continue
		}
		if !isDigit(c) {
			break
		}
		result = result*10 + int32(c-'0')
	}

	return sign * result
}

// parseHexInt parses a hex literal (digits already stripped of the 0x/0X
// prefix), skipping `_` separators. Overflow wraps per normal int32
// arithmetic, matching the original's plain i32 accumulation.
func parseHexInt(s string) int32 {
	var result int32
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
			continue
		case c >= '0' && c <= '9':
			result = result*16 + int32(c-'0')
		case c >= 'a' && c <= 'f':
			result = result*16 + int32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			result = result*16 + int32(c-'A'+10)
		default:
			return result
		}
	}
	return result
}

// parseBinaryInt parses a binary literal (digits already stripped of the
// 0b/0B prefix), skipping `_` separators.
func parseBinaryInt(s string) int32 {
	var result int32
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
			continue
		case c == '0' || c == '1':
			result = (result << 1) | int32(c-'0')
		default:
			return result
		}
	}
	return result
}

// parseFloat parses a decimal float literal with optional `_` separators,
// a fractional part, an `e`/`E` exponent with optional sign, and a
// trailing `f`/`F` suffix (already excluded from s by the caller). It
// mirrors thrive_strtod's digit-by-digit accumulation rather than calling
// strconv.ParseFloat, so that the `_` separator grammar is honored.
func parseFloat(s string) float64 {
	var result float64
	sign := 1.0
	i := 0

	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		if s[i] == '-' {
			sign = -1.0
		}
		i++
	}

	for i < len(s) && (isDigit(s[i]) || s[i] == '_') {
		if s[i] == '_' {
			i++
			continue
		}
		result = result*10.0 + float64(s[i]-'0')
		i++
	}

	if i < len(s) && s[i] == '.' {
		i++
		frac := 0.1
		for i < len(s) && (isDigit(s[i]) || s[i] == '_') {
			if s[i] == '_' {
				i++
				continue
			}
			result += float64(s[i]-'0') * frac
			frac *= 0.1
			i++
		}
	}

	exponent := 0
	expSign := 1
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '-' || s[i] == '+') {
			if s[i] == '-' {
				expSign = -1
			}
			i++
		}
		for i < len(s) && (isDigit(s[i]) || s[i] == '_') {
			if s[i] == '_' {
				i++
				continue
			}
			exponent = exponent*10 + int(s[i]-'0')
			i++
		}
	}

	pow10 := 1.0
	for n := 0; n < exponent; n++ {
		pow10 *= 10.0
	}
	if expSign < 0 {
		result /= pow10
	} else {
		result *= pow10
	}

	return sign * result
}
