package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/logging"
	"github.com/dmitrijs2005/estateportal/internal/server/auth"
	"github.com/dmitrijs2005/estateportal/internal/server/config"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/estateportal/internal/server/services"
	"github.com/dmitrijs2005/estateportal/internal/server/web/views"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

const testAdminPassword = "letmein"

// fakeRenderer records what was rendered instead of executing templates.
type fakeRenderer struct {
	mu      sync.Mutex
	page    string
	data    *views.Data
	panicOn string
}

func (f *fakeRenderer) Render(w io.Writer, page string, data any) error {
	if page == f.panicOn {
		panic("boom")
	}
	f.mu.Lock()
	f.page = page
	f.data, _ = data.(*views.Data)
	f.mu.Unlock()
	_, err := fmt.Fprintf(w, "page=%s", page)
	return err
}

func (f *fakeRenderer) last() (string, *views.Data) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page, f.data
}

// fakePhotos keeps uploads in memory.
type fakePhotos struct {
	mu     sync.Mutex
	saved  map[string]string
	failOn string
}

func (f *fakePhotos) Save(_ context.Context, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == f.failOn {
		return "", errors.New("disk full")
	}
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	p := "/uploads/" + name
	f.saved[p] = string(b)
	return p, nil
}

func (f *fakePhotos) Delete(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, ref)
	return nil
}

func (f *fakePhotos) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type testEnv struct {
	handler  http.Handler
	renderer *fakeRenderer
	photos   *fakePhotos
	users    *services.UserService
	listings *services.ListingService
	manager  *repomanager.JSONRepositoryManager
	dataDir  string
	tempDir  string
	public   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	m, err := repomanager.NewJSONRepositoryManager(dataDir)
	require.NoError(t, err)

	cfg := &config.Config{
		BcryptCost:    bcrypt.MinCost,
		AdminUsername: "admin",
		AdminPassword: testAdminPassword,
	}

	env := &testEnv{
		renderer: &fakeRenderer{},
		photos:   &fakePhotos{},
		users:    services.NewUserService(m, cfg),
		listings: services.NewListingService(m),
		manager:  m,
		dataDir:  dataDir,
		tempDir:  filepath.Join(root, "tmp"),
		public:   filepath.Join(root, "public"),
	}

	h := NewHandler(Deps{
		Users:          env.users,
		Listings:       env.listings,
		Importer:       services.NewImporter(m, logging.Nop{}),
		Blogs:          services.NewBlogService(m),
		Photos:         env.photos,
		Renderer:       env.renderer,
		Sessions:       NewSessions(testSecret, time.Hour),
		Logger:         logging.Nop{},
		PublicDir:      env.public,
		TempDir:        env.tempDir,
		MaxPhotos:      6,
		MetricsEnabled: true,
	})

	srv, err := NewServer(":0", logging.Nop{}, h.Options()...)
	require.NoError(t, err)
	env.handler = srv.Handler()

	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request, ident *models.Identity) *httptest.ResponseRecorder {
	t.Helper()
	if ident != nil {
		tok, err := auth.GenerateToken(ident, testSecret, time.Hour)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: tok})
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string, ident *models.Identity) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil), ident)
}

func (e *testEnv) postForm(t *testing.T, path string, form map[string]string, ident *models.Identity) *httptest.ResponseRecorder {
	t.Helper()
	vals := url.Values{}
	for k, v := range form {
		vals.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req, ident)
}

type upload struct {
	field, filename, contentType, body string
}

func (e *testEnv) postMultipart(t *testing.T, path string, form map[string]string, files []upload, ident *models.Identity) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range form {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		hdr.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(t, req, ident)
}

func (e *testEnv) properties(t *testing.T) []models.Property {
	t.Helper()
	ps, err := e.listings.List(context.Background(), services.Filter{})
	require.NoError(t, err)
	return ps
}

func (e *testEnv) seed(t *testing.T, ps ...models.Property) {
	t.Helper()
	require.NoError(t, e.manager.Properties().CreateMany(context.Background(), ps))
}

func (e *testEnv) writeBlogs(t *testing.T, bs ...models.Blog) {
	t.Helper()
	b, err := json.Marshal(bs)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(e.dataDir, repomanager.BlogsFile), b, 0o600))
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
