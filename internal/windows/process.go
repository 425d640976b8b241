//go:build windows

package windows

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// QueryExecutablePath returns the full image path of a running process.
// Limited query rights are enough for most processes, but not for those of
// a more privileged user unless akcfg itself is elevated.
func QueryExecutablePath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("failed to open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))

	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("failed to query image name of process %d: %w", pid, err)
	}

	return windows.UTF16ToString(buf[:size]), nil
}

// fallbackTranslations are tried when a version resource has no usable
// translation table: US English in Unicode, Windows-1252 and neutral.
var fallbackTranslations = []string{"040904b0", "040904e4", "04090000"}

// GetFileDescription reads the FileDescription string from the version
// resource of path.
func GetFileDescription(path string) (string, error) {
	size, err := windows.GetFileVersionInfoSize(path, nil)
	if err != nil {
		return "", err
	}

	if size == 0 {
		return "", errors.New("empty version resource")
	}

	data := make([]byte, size)
	if err := windows.GetFileVersionInfo(path, 0, size, unsafe.Pointer(&data[0])); err != nil {
		return "", err
	}

	block := unsafe.Pointer(&data[0])

	for _, lang := range append(translations(block), fallbackTranslations...) {
		var value unsafe.Pointer
		var n uint32

		sub := `\StringFileInfo\` + lang + `\FileDescription`
		if err := windows.VerQueryValue(block, sub, unsafe.Pointer(&value), &n); err != nil || n == 0 {
			continue
		}

		return windows.UTF16PtrToString((*uint16)(value)), nil
	}

	return "", errors.New("no FileDescription in version resource")
}

// translations lists the language/codepage pairs a version resource declares,
// formatted as StringFileInfo block names.
func translations(block unsafe.Pointer) []string {
	var value unsafe.Pointer
	var n uint32

	if err := windows.VerQueryValue(block, `\VarFileInfo\Translation`, unsafe.Pointer(&value), &n); err != nil || n < 4 {
		return nil
	}

	pairs := unsafe.Slice((*uint16)(value), n/2)
	out := make([]string, 0, len(pairs)/2)

	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, fmt.Sprintf("%04x%04x", pairs[i], pairs[i+1]))
	}

	return out
}
