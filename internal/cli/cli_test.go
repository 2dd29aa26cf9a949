package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dagligdags/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeals = `[
  {"product": "Lettmelk", "price": 20, "store": "coop", "organic": true, "valid_until": "2024-05-07"},
  {"product": "Grovbrød", "price": 30, "discount_percentage": 10, "store": "rema"},
  {"product": "Peanøtter", "price": 25, "discount_percentage": 30, "store": "rema", "allergens": ["nuts"]},
  {"product": "Helmelk", "price": 25, "store": "rema"}
]`

// setupWorkspace writes a config pointing at fresh profile and deal directories
func setupWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	usersDir := filepath.Join(dir, "users")
	dealsDir := filepath.Join(dir, "normalized")
	require.NoError(t, os.MkdirAll(dealsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dealsDir, "deals_2024-05-01.json"), []byte(testDeals), 0o644))

	cfg := "profiles:\n  dir: " + usersDir + "\ndeals:\n  dir: " + dealsDir + "\n"
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	profilePath := filepath.Join(dir, "ola.yaml")
	profile := "organic_preference: 5\nallergies:\n  - nuts\n"
	require.NoError(t, os.WriteFile(profilePath, []byte(profile), 0o644))

	_, err := runCLI(cfgPath, "profile", "set", "ola", "--file", profilePath)
	require.NoError(t, err)

	return cfgPath
}

func runCLI(cfgPath string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestRankCommand(t *testing.T) {
	cfgPath := setupWorkspace(t)

	t.Run("lists personalized deals best first", func(t *testing.T) {
		out, err := runCLI(cfgPath, "rank", "--user", "ola")
		require.NoError(t, err)

		assert.Contains(t, out, "Lettmelk")
		assert.Contains(t, out, "3.3")
		assert.Contains(t, out, "20.00 kr")
		assert.Contains(t, out, "2024-05-07")
		assert.Contains(t, out, "matches your organic preference")
		assert.NotContains(t, out, "Peanøtter")
		assert.Less(t, strings.Index(out, "Lettmelk"), strings.Index(out, "Grovbrød"))
		assert.Less(t, strings.Index(out, "Grovbrød"), strings.Index(out, "Helmelk"))
	})

	t.Run("limits output to top N", func(t *testing.T) {
		out, err := runCLI(cfgPath, "rank", "--user", "ola", "--top", "1")
		require.NoError(t, err)

		assert.Contains(t, out, "Lettmelk")
		assert.NotContains(t, out, "Grovbrød")
	})

	t.Run("reads deals from a given file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deals.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"product": "Økologiske egg", "price": 40, "store": "meny", "organic": true}]`), 0o644))

		out, err := runCLI(cfgPath, "rank", "--user", "ola", "--deals", path)
		require.NoError(t, err)

		assert.Contains(t, out, "Økologiske egg")
		assert.NotContains(t, out, "Lettmelk")
	})

	t.Run("reports users without a profile", func(t *testing.T) {
		out, err := runCLI(cfgPath, "rank", "--user", "kari")
		require.NoError(t, err)

		assert.Contains(t, out, "No deals found for kari")
	})

	t.Run("requires a user", func(t *testing.T) {
		_, err := runCLI(cfgPath, "rank")
		assert.Error(t, err)
	})
}

func TestBasketCommand(t *testing.T) {
	cfgPath := setupWorkspace(t)

	t.Run("prints the best store", func(t *testing.T) {
		out, err := runCLI(cfgPath, "basket", "--user", "ola", "melk", "brød")
		require.NoError(t, err)

		assert.Contains(t, out, "rema")
		assert.NotContains(t, out, "coop")
		assert.Contains(t, out, "2 of 2 items (100%)")
		assert.Contains(t, out, "55.00 kr")
	})

	t.Run("reports an empty basket", func(t *testing.T) {
		out, err := runCLI(cfgPath, "basket", "--user", "ola", "kaffe")
		require.NoError(t, err)

		assert.Contains(t, out, "No store has deals for your shopping list.")
	})

	t.Run("requires at least one item", func(t *testing.T) {
		_, err := runCLI(cfgPath, "basket", "--user", "ola")
		assert.Error(t, err)
	})
}

func TestProfileCommands(t *testing.T) {
	cfgPath := setupWorkspace(t)

	t.Run("shows a stored profile", func(t *testing.T) {
		out, err := runCLI(cfgPath, "profile", "show", "ola")
		require.NoError(t, err)

		assert.Contains(t, out, "organic_preference: 5")
		assert.Contains(t, out, "- nuts")
	})

	t.Run("accepts JSON profile files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kari.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"price_sensitivity": 4, "transport_mode": "driving"}`), 0o644))

		_, err := runCLI(cfgPath, "profile", "set", "kari", "--file", path)
		require.NoError(t, err)

		out, err := runCLI(cfgPath, "profile", "show", "kari")
		require.NoError(t, err)
		assert.Contains(t, out, "price_sensitivity: 4")
		assert.Contains(t, out, "transport_mode: driving")
	})

	t.Run("fails for unknown users", func(t *testing.T) {
		_, err := runCLI(cfgPath, "profile", "show", "per")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("fails for a missing profile file", func(t *testing.T) {
		_, err := runCLI(cfgPath, "profile", "set", "per", "--file", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "melk", truncate("melk", 10))
	assert.Equal(t, "Økolo...", truncate("Økologisk lettmelk", 8))
}
