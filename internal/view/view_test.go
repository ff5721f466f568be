package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/votemonitor/internal/claimflow"
	"github.com/votemonitor/internal/config"
	"github.com/votemonitor/internal/model"
)

var site = config.Default().Site

func finished(t *testing.T, creds *model.Credentials, err error) *claimflow.Flow {
	t.Helper()
	f := claimflow.New()
	require.NoError(t, f.Start())
	_, ferr := f.Finish(creds, err)
	require.NoError(t, ferr)
	return f
}

func TestLanding(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Landing(&b, site, "<p>intro</p>"))
	out := b.String()
	require.Contains(t, out, "<title>Vote Monitor | Commit Global</title>")
	require.Contains(t, out, "<p>intro</p>")
	require.Contains(t, out, `href="/credentials"`)
	require.Contains(t, out, site.AndroidURL)
}

func TestCredentialsSuccessCard(t *testing.T) {
	var b strings.Builder
	f := finished(t, &model.Credentials{Email: "demo1@x.com", Password: "p4ss"}, nil)
	require.NoError(t, CredentialsResult(&b, site, f, 24))
	out := b.String()
	require.Contains(t, out, `value="demo1@x.com"`)
	require.Contains(t, out, `value="p4ss"`)
	require.Contains(t, out, `data-copy="demo-email"`)
	require.Contains(t, out, `data-copy="demo-password"`)
	require.Contains(t, out, "expire after 24 hours")
}

func TestCredentialsEmptyAndFailedCopyDiffer(t *testing.T) {
	var empty, failed strings.Builder
	require.NoError(t, CredentialsResult(&empty, site, finished(t, nil, nil), 24))
	require.NoError(t, CredentialsResult(&failed, site, finished(t, nil, errors.New("down")), 24))

	require.Contains(t, empty.String(), `data-state="empty"`)
	require.Contains(t, failed.String(), "Looks like the universe decided to hide your credentials")
	for _, out := range []string{empty.String(), failed.String()} {
		require.Contains(t, out, "<h2>Oops!</h2>")
		require.Contains(t, out, `<a href="/">Back to the home page</a>`)
		require.NotContains(t, out, "demo-password")
	}
}

func TestCredentialsResultEscapes(t *testing.T) {
	var b strings.Builder
	f := finished(t, &model.Credentials{Email: `"><script>x</script>`, Password: "p"}, nil)
	require.NoError(t, CredentialsResult(&b, site, f, 24))
	require.NotContains(t, b.String(), "<script>x</script>")
}

func TestCredentialsResultRejectsRunningFlow(t *testing.T) {
	f := claimflow.New()
	require.NoError(t, f.Start())
	require.Error(t, CredentialsResult(&strings.Builder{}, site, f, 24))
}

func TestCredentialsStartHasBackLink(t *testing.T) {
	var b strings.Builder
	require.NoError(t, CredentialsStart(&b, site))
	out := b.String()
	require.Contains(t, out, `id="loading"`)
	require.Contains(t, out, `<a href="/">Back</a>`)
}
