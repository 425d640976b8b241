//go:build windows

package windows

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

const smallIconSize = 16

// ExtractIcon extracts the first icon of exePath as a size x size image. A
// file without an icon yields nil without error; the returned error reports
// native handles that could not be released.
func ExtractIcon(exePath string, size int) (img image.Image, err error) {
	path, perr := windows.UTF16PtrFromString(exePath)
	if perr != nil {
		return nil, nil
	}

	var large, small uintptr
	procExtractIconExW.Call(
		uintptr(unsafe.Pointer(path)),
		0,
		uintptr(unsafe.Pointer(&large)),
		uintptr(unsafe.Pointer(&small)),
		1,
	)

	defer func() {
		err = errors.Join(err, destroyIcon(large), destroyIcon(small))
	}()

	icon := large
	if icon == 0 || (size <= smallIconSize && small != 0) {
		icon = small
	}

	if icon == 0 {
		return nil, nil
	}

	bmp, err := iconBitmap(icon)
	if bmp == nil {
		return nil, err
	}

	return scale(bmp, size), err
}

// iconBitmap renders the colour bitmap of an icon.
func iconBitmap(icon uintptr) (img *image.NRGBA, err error) {
	var info ICONINFO

	ret, _, _ := procGetIconInfo.Call(icon, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return nil, nil
	}

	defer func() {
		err = errors.Join(err, deleteObject(info.HbmColor), deleteObject(info.HbmMask))
	}()

	// Monochrome icons only have a mask
	if info.HbmColor == 0 {
		return nil, nil
	}

	hdc, _, _ := procCreateCompatibleDC.Call(0)
	if hdc == 0 {
		return nil, nil
	}

	defer func() {
		if ret, _, e := procDeleteDC.Call(hdc); ret == 0 {
			err = errors.Join(err, fmt.Errorf("DeleteDC failed: %w", e))
		}
	}()

	var bmi BITMAPINFO
	bmi.BmiHeader.BiSize = uint32(unsafe.Sizeof(bmi.BmiHeader))

	// Header only, to learn the dimensions
	ret, _, _ = procGetDIBits.Call(hdc, info.HbmColor, 0, 0, 0, uintptr(unsafe.Pointer(&bmi)), DIB_RGB_COLORS)
	if ret == 0 {
		return nil, nil
	}

	width := int(bmi.BmiHeader.BiWidth)
	height := int(bmi.BmiHeader.BiHeight)
	if height < 0 {
		height = -height
	}

	if width <= 0 || height <= 0 {
		return nil, nil
	}

	// Negative height asks for top-down rows
	bmi.BmiHeader.BiBitCount = 32
	bmi.BmiHeader.BiCompression = BI_RGB
	bmi.BmiHeader.BiSizeImage = 0
	bmi.BmiHeader.BiHeight = -int32(height)

	buf := make([]byte, width*height*4)

	ret, _, _ = procGetDIBits.Call(
		hdc,
		info.HbmColor,
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&bmi)),
		DIB_RGB_COLORS,
	)
	if ret == 0 {
		return nil, nil
	}

	return bgraToNRGBA(buf, width, height), nil
}

func destroyIcon(h uintptr) error {
	if h == 0 {
		return nil
	}

	if ret, _, err := procDestroyIcon.Call(h); ret == 0 {
		return fmt.Errorf("DestroyIcon failed: %w", err)
	}

	return nil
}

func deleteObject(h uintptr) error {
	if h == 0 {
		return nil
	}

	if ret, _, err := procDeleteObject.Call(h); ret == 0 {
		return fmt.Errorf("DeleteObject failed: %w", err)
	}

	return nil
}
