package rustbind

import "strings"

// WheelTag is the (python, abi, platform) compatibility tag of a wheel.
type WheelTag struct {
	Python   string `json:"python"`
	ABI      string `json:"abi"`
	Platform string `json:"platform"`
}

// String formats the tag the way it appears in wheel filenames.
func (t WheelTag) String() string {
	return strings.Join([]string{t.Python, t.ABI, t.Platform}, "-")
}

// UniversalTag returns the tag a wheel should carry. The native library is
// loaded through a C ABI rather than the interpreter's extension ABI, so in
// universal mode the wheel works on any Python: the interpreter and ABI parts
// become "py2.py3" and "none" while the platform is kept.
func UniversalTag(base WheelTag, universal bool) WheelTag {
	if !universal {
		return base
	}
	return WheelTag{Python: "py2.py3", ABI: "none", Platform: base.Platform}
}
