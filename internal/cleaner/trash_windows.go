//go:build windows

package cleaner

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/fenilsonani/kuri-uninstaller/internal/platform"
)

const (
	foDelete          = 0x3
	fofSilent         = 0x4
	fofNoConfirmation = 0x10
	fofAllowUndo      = 0x40
	fofNoErrorUI      = 0x400
)

var (
	shell32              = windows.NewLazySystemDLL("shell32.dll")
	procSHFileOperationW = shell32.NewProc("SHFileOperationW")
)

// shFileOpStruct mirrors SHFILEOPSTRUCTW on 64-bit Windows
type shFileOpStruct struct {
	hwnd                  uintptr
	wFunc                 uint32
	pFrom                 *uint16
	pTo                   *uint16
	fFlags                uint16
	fAnyOperationsAborted int32
	hNameMappings         uintptr
	lpszProgressTitle     *uint16
}

// recycleBin sends entries to the Windows Recycle Bin
type recycleBin struct{}

// NewSystemTrash returns the Recycle Bin
func NewSystemTrash(*platform.Info) Trasher {
	return recycleBin{}
}

func (recycleBin) Trash(path string) error {
	from, err := windows.UTF16FromString(path)
	if err != nil {
		return err
	}
	// pFrom is a list terminated by an empty string
	from = append(from, 0)

	op := shFileOpStruct{
		wFunc:  foDelete,
		pFrom:  &from[0],
		fFlags: fofAllowUndo | fofNoConfirmation | fofSilent | fofNoErrorUI,
	}

	if err := procSHFileOperationW.Find(); err != nil {
		return err
	}
	r, _, _ := procSHFileOperationW.Call(uintptr(unsafe.Pointer(&op)))
	if r != 0 {
		return fmt.Errorf("recycle bin operation failed (code 0x%x)", r)
	}
	if op.fAnyOperationsAborted != 0 {
		return errors.New("recycle bin operation was aborted")
	}
	return nil
}
