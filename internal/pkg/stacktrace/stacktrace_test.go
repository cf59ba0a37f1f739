package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sample = `goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/twostep/internal/pkg/router.middlewareRecoverer.func1.1()
	/src/twostep/internal/pkg/router/middleware_recover.go:28 +0x1a5
panic({0x1031a40?, 0x14c2d30?})
	/usr/local/go/src/runtime/panic.go:785 +0x132
github.com/shandysiswandi/twostep/internal/identity/usecase.(*Usecase).ValidateCredentials(...)
	/src/twostep/internal/identity/usecase/validate_credentials.go:41
`

func TestFrames(t *testing.T) {
	assert.Equal(t, []string{
		"internal/pkg/router/middleware_recover.go:28",
		"internal/identity/usecase/validate_credentials.go:41",
	}, Frames([]byte(sample)))

	raw := "goroutine 1 [running]:\nmain.main()\n\t/src/main.go:9 +0x1d\n"
	assert.Equal(t, []string{raw}, Frames([]byte(raw)))

	assert.Empty(t, Frames(nil))
}
