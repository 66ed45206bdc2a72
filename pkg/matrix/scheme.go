// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

// Scheme names one ML-KEM parameter set. Schemes are totally ordered
// by security level for stable report output.
type Scheme string

const (
	MLKEM512  Scheme = "mlkem512"
	MLKEM768  Scheme = "mlkem768"
	MLKEM1024 Scheme = "mlkem1024"
)

// Schemes returns all parameter sets in reporting order.
func Schemes() []Scheme {
	return []Scheme{MLKEM512, MLKEM768, MLKEM1024}
}

// String returns the scheme name.
func (s Scheme) String() string { return string(s) }

// Bits returns the scheme's bit-count suffix used in binary names.
func (s Scheme) Bits() string {
	switch s {
	case MLKEM512:
		return "512"
	case MLKEM768:
		return "768"
	case MLKEM1024:
		return "1024"
	default:
		return ""
	}
}
