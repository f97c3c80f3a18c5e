package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/flowci/flow-impex/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeApi struct {
	server  *httptest.Server
	submits int32
	checks  int32
}

// newFakeApi start the job api which reports 'pending' on the first status check,
// outputs is built with url of the server
func newFakeApi(t *testing.T, outputs func(url string) gin.H) *fakeApi {
	f := &fakeApi{}
	router := gin.New()
	f.server = httptest.NewServer(router)

	submit := func(c *gin.Context) {
		atomic.AddInt32(&f.submits, 1)
		if c.GetHeader("Authorization") != "Bearer my-token" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status_url": f.server.URL + "/status/1"})
	}

	router.POST("/:tenant/api/v4/export", submit)
	router.POST("/:tenant/api/v4/import", submit)

	router.GET("/status/1", func(c *gin.Context) {
		if atomic.AddInt32(&f.checks, 1) == 1 {
			c.JSON(http.StatusOK, gin.H{"status": "pending"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "completed", "outputs": outputs(f.server.URL)})
	})

	router.GET("/files/package.zip", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/zip", []byte("exported"))
	})

	t.Cleanup(f.server.Close)
	return f
}

func runApp(t *testing.T, args ...string) (int, error) {
	exiter := cli.OsExiter
	t.Cleanup(func() {
		cli.OsExiter = exiter
	})

	code := 0
	cli.OsExiter = func(c int) {
		code = c
	}

	err := NewApp().Run(append([]string{"flow-impex"}, args...))
	return code, err
}

func TestShouldExportFromCommandLine(t *testing.T) {
	assert := assert.New(t)

	api := newFakeApi(t, func(url string) gin.H {
		return gin.H{"files": []gin.H{{"file": url + "/files/package.zip"}}}
	})

	file := filepath.Join(t.TempDir(), "package.zip")
	code, err := runApp(t,
		"--host", api.server.URL,
		"--retry-interval", "1ms",
		"export",
		"--env", "sit",
		"--tenant", "my-tenant",
		"--token", "my-token",
		"--services", `["folder/service1"]`,
		"--file", file,
	)

	assert.NoError(err)
	assert.Equal(0, code)
	assert.Equal(int32(1), atomic.LoadInt32(&api.submits))
	assert.Equal(int32(2), atomic.LoadInt32(&api.checks))

	content, readErr := os.ReadFile(file)
	assert.NoError(readErr)
	assert.Equal("exported", string(content))
}

func TestShouldImportFromCommandLine(t *testing.T) {
	assert := assert.New(t)

	api := newFakeApi(t, func(url string) gin.H {
		return gin.H{"services": []string{"target-folder/my-service"}}
	})

	file := filepath.Join(t.TempDir(), "package.zip")
	assert.NoError(os.WriteFile(file, []byte("zip"), 0644))

	code, err := runApp(t,
		"--host", api.server.URL,
		"--retry-interval", "1ms",
		"import",
		"--env", "uat",
		"--tenant", "my-tenant",
		"--token", "my-token",
		"--source", "source-folder/my-service",
		"--target", "target-folder/my-service",
		"--file", file,
	)

	assert.NoError(err)
	assert.Equal(0, code)
	assert.Equal(int32(1), atomic.LoadInt32(&api.submits))
}

func TestShouldExitWithCodeOneOnMissingArgument(t *testing.T) {
	assert := assert.New(t)

	api := newFakeApi(t, func(url string) gin.H {
		return gin.H{}
	})

	code, err := runApp(t,
		"--host", api.server.URL,
		"export",
		"--env", "sit",
		"--tenant", "my-tenant",
		"--services", "folder/service1",
	)

	assert.Error(err)
	assert.Equal(1, code)
	assert.Equal(int32(0), atomic.LoadInt32(&api.submits))
}

func TestShouldExitWithCodeOneOnServiceUnavailable(t *testing.T) {
	assert := assert.New(t)

	api := newFakeApi(t, func(url string) gin.H {
		return gin.H{}
	})

	code, err := runApp(t,
		"--host", api.server.URL,
		"export",
		"--env", "sit",
		"--tenant", "my-tenant",
		"--token", "invalid-token",
		"--services", "folder/service1",
	)

	assert.Error(err)
	assert.Equal(1, code)
	assert.Equal(int32(1), atomic.LoadInt32(&api.submits))
	assert.Equal(int32(0), atomic.LoadInt32(&api.checks))
}

func TestShouldExitWithCodeOneWhenArchiveCannotBeWritten(t *testing.T) {
	assert := assert.New(t)

	api := newFakeApi(t, func(url string) gin.H {
		return gin.H{"files": []gin.H{{"file": url + "/files/package.zip"}}}
	})

	blocker := filepath.Join(t.TempDir(), "blocker")
	assert.NoError(os.WriteFile(blocker, []byte("file"), 0644))

	code, err := runApp(t,
		"--host", api.server.URL,
		"--retry-interval", "1ms",
		"--progress",
		"export",
		"--env", "sit",
		"--tenant", "my-tenant",
		"--token", "my-token",
		"--services", "folder/service1",
		"--file", filepath.Join(blocker, "package.zip"),
	)

	assert.Error(err)
	assert.Equal(1, code)
	assert.Equal(int32(1), atomic.LoadInt32(&api.submits))
}

func TestShouldWriteProgressToStderr(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(os.Stderr, progressOutput(true))

	if !util.IsDebugLog() {
		assert.Nil(progressOutput(false))
	}
}
