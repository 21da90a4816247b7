package preflight

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess passes when path is a directory the current user can
// list, read and write.
func CheckDirectoryAccess(name, path string) Result {
	result := Result{Name: name, Detail: path}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.Detail += " (error: does not exist)"
	case err != nil:
		result.Detail += " (error: stat: " + err.Error() + ")"
	case !info.IsDir():
		result.Detail += " (error: is not a directory)"
	default:
		if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
			result.Detail += " (error: insufficient permissions: " + err.Error() + ")"
			break
		}
		result.Passed = true
		result.Detail += " (read/write ok)"
	}
	return result
}

// Failed filters results down to the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
