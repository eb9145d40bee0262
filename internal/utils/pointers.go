package utils

func StringPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TrimmedPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
