package codes

// Process exit codes of sassbuild
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Toolchain exit codes with a meaning of their own
const (
	ToolchainSuccess  = 0
	ToolchainNotFound = 127
)

// ErrorMessages maps toolchain exit codes to the status line printed for them
var ErrorMessages = map[int]string{
	ToolchainNotFound: "node-gyp not found!",
}

// BuildFailed is printed for any other nonzero toolchain exit
const BuildFailed = "Build failed"

// IsSuccess returns true if the exit code indicates a successful build
func IsSuccess(code int) bool {
	return code == ToolchainSuccess
}

// GetErrorMessage returns the status line for a failing exit code
func GetErrorMessage(code int) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}

	return BuildFailed
}
