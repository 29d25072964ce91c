package attributes

// intrinsics are the built-in character replacement attributes. They resolve
// before document attributes and cannot be redefined by entries.
var intrinsics = map[string]string{
	"startsb":        "[",
	"endsb":          "]",
	"vbar":           "|",
	"caret":          "^",
	"asterisk":       "*",
	"tilde":          "~",
	"plus":           "&#43;",
	"backslash":      "\\",
	"backtick":       "`",
	"blank":          "",
	"empty":          "",
	"sp":             " ",
	"two-colons":     "::",
	"two-semicolons": ";;",
	"nbsp":           "&#160;",
	"deg":            "&#176;",
	"zwsp":           "&#8203;",
	"quot":           "&#34;",
	"apos":           "&#39;",
	"lsquo":          "&#8216;",
	"rsquo":          "&#8217;",
	"ldquo":          "&#8220;",
	"rdquo":          "&#8221;",
	"wj":             "&#8288;",
	"brvbar":         "&#166;",
	"pp":             "&#43;&#43;",
	"cpp":            "C&#43;&#43;",
	"cxx":            "C&#43;&#43;",
	"amp":            "&",
	"lt":             "<",
	"gt":             ">",
}

// Intrinsic returns the value of a built-in character attribute.
func Intrinsic(name string) (string, bool) {
	v, ok := intrinsics[Normalize(name)]
	return v, ok
}

// IsIntrinsic reports whether name is a built-in character attribute.
func IsIntrinsic(name string) bool {
	_, ok := intrinsics[Normalize(name)]
	return ok
}
