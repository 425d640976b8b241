//go:build windows

package windows

type RECT struct {
	Left, Top, Right, Bottom int32
}

type POINT struct {
	X, Y int32
}

type TITLEBARINFO struct {
	CbSize     uint32
	RcTitleBar RECT
	Rgstate    [CCHILDREN_TITLEBAR + 1]uint32
}

type ICONINFO struct {
	FIcon    int32
	XHotspot uint32
	YHotspot uint32
	HbmMask  uintptr
	HbmColor uintptr
}

type BITMAPINFOHEADER struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

// BITMAPINFO with room for the three colour masks GetDIBits may write when
// asked for the header only.
type BITMAPINFO struct {
	BmiHeader BITMAPINFOHEADER
	BmiColors [3]uint32
}
