package setup

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers Output from a fixed table; missing commands fail.
type fakeRunner struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, commands ...string) error {
	f.calls = append(f.calls, commands...)
	return nil
}

func (f *fakeRunner) Output(_ context.Context, _ string, command string) (string, error) {
	f.calls = append(f.calls, command)
	out, ok := f.outputs[command]
	if !ok {
		return "", &ExitError{Command: command, Code: 127}
	}
	return out, nil
}

type fakeResolver map[string][]string

func (f fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if addrs, ok := f[host]; ok {
		return addrs, nil
	}
	return nil, errors.New("no such host")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "shop", SanitizeName("shop/"))
	assert.Equal(t, "shop", SanitizeName(`shop\\/`))
	assert.Equal(t, "my-shop", SanitizeName("my-shop"))
	assert.Equal(t, ".", SanitizeName("."))
}

func TestVerifyName(t *testing.T) {
	assert.ErrorIs(t, VerifyName(SanitizeName("/")), ErrEmptyName)
	assert.ErrorIs(t, VerifyName(SanitizeName(`\\`)), ErrEmptyName)
	assert.ErrorIs(t, VerifyName(" "), ErrEmptyName)
	assert.NoError(t, VerifyName(SanitizeName("shop/")))
	assert.NoError(t, VerifyName("."))
}

func TestInstallationDirectory(t *testing.T) {
	assert.Equal(t, ".", InstallationDirectory("/srv", "."))
	assert.Equal(t, "/srv/shop", InstallationDirectory("/srv", "shop"))
}

func TestVerifyApplicationDoesntExist(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/srv/existing", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/srv/file", []byte("x"), 0o644))

	assert.NoError(t, VerifyApplicationDoesntExist(fsys, "/srv/new", "/srv"))
	assert.NoError(t, VerifyApplicationDoesntExist(fsys, ".", "/srv"))
	assert.NoError(t, VerifyApplicationDoesntExist(fsys, "/srv", "/srv"))
	assert.ErrorIs(t, VerifyApplicationDoesntExist(fsys, "/srv/existing", "/srv"), ErrApplicationExists)
	assert.ErrorIs(t, VerifyApplicationDoesntExist(fsys, "/srv/file", "/srv"), ErrApplicationExists)
}

func TestVerifyForce(t *testing.T) {
	assert.ErrorIs(t, VerifyForce(".", true), ErrForceCurrentDirectory)
	assert.NoError(t, VerifyForce(".", false))
	assert.NoError(t, VerifyForce("shop", true))
}

func TestEnvironment_DefaultBranch(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"git config --global init.defaultBranch": "develop"}}
	assert.Equal(t, "develop", NewEnvironment(r).DefaultBranch(context.Background()))

	empty := &fakeRunner{outputs: map[string]string{"git config --global init.defaultBranch": ""}}
	assert.Equal(t, DefaultBranchName, NewEnvironment(empty).DefaultBranch(context.Background()))

	assert.Equal(t, DefaultBranchName, NewEnvironment(&fakeRunner{}).DefaultBranch(context.Background()))
}

func TestEnvironment_TLD(t *testing.T) {
	herd := &fakeRunner{outputs: map[string]string{"herd tld -v": "herd"}}
	assert.Equal(t, "herd", NewEnvironment(herd).TLD(context.Background()))

	valet := &fakeRunner{outputs: map[string]string{"valet tld -v": "localhost"}}
	assert.Equal(t, "localhost", NewEnvironment(valet).TLD(context.Background()))
	assert.Equal(t, []string{"herd tld -v", "valet tld -v"}, valet.calls)

	assert.Equal(t, DefaultTLD, NewEnvironment(&fakeRunner{}).TLD(context.Background()))
}

func TestEnvironment_GenerateAppURL(t *testing.T) {
	env := &Environment{
		Runner:   &fakeRunner{},
		Resolver: fakeResolver{"shop.test": {"127.0.0.1"}},
	}

	assert.Equal(t, "http://shop.test", env.GenerateAppURL(context.Background(), "Shop"))
	assert.Equal(t, "http://localhost", env.GenerateAppURL(context.Background(), "other"))
}

func TestEnvironment_IsParkedOnHerdOrValet(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"herd paths -v": `["/Users/dev/Sites", "/srv/www/"]`}}
	env := NewEnvironment(r)

	assert.True(t, env.IsParkedOnHerdOrValet(context.Background(), "/Users/dev/Sites/shop"))
	assert.True(t, env.IsParkedOnHerdOrValet(context.Background(), "/srv/www/shop"))
	assert.False(t, env.IsParkedOnHerdOrValet(context.Background(), "/tmp/shop"))

	broken := NewEnvironment(&fakeRunner{outputs: map[string]string{"herd paths -v": "not json"}})
	assert.False(t, broken.IsParkedOnHerdOrValet(context.Background(), "/srv/www/shop"))

	assert.False(t, NewEnvironment(&fakeRunner{}).IsParkedOnHerdOrValet(context.Background(), "/srv/www/shop"))
}
