package utils

import "gorm.io/datatypes"

// StringSlice stores nil as an empty JSON array so clients never see null lists
func StringSlice(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}
