package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	// Регистр и пробелы нормализуются.
	c, err := ParseCategory("  Business ")
	require.NoError(t, err)
	require.Equal(t, CategoryBusiness, c)

	for _, category := range Categories() {
		parsed, err := ParseCategory(string(category))
		require.NoError(t, err)
		require.Equal(t, category, parsed)
	}

	_, err = ParseCategory("politics")
	require.Error(t, err)

	_, err = ParseCategory("")
	require.Error(t, err)
}

func TestCategory_DisplayName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Business & Finance", CategoryBusiness.DisplayName())
	require.Equal(t, "Science & Technology", CategoryScience.DisplayName())
	require.Equal(t, "National News", CategoryNational.DisplayName())
}

func TestEditionAt(t *testing.T) {
	t.Parallel()

	morning := time.Date(2026, 8, 30, 11, 59, 0, 0, time.UTC)
	require.Equal(t, EditionMorning, EditionAt(morning))

	noon := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	require.Equal(t, EditionEvening, EditionAt(noon))

	midnight := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	require.Equal(t, EditionMorning, EditionAt(midnight))
}

func TestEdition_Labels(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Morning", EditionMorning.Label())
	require.Equal(t, "AM", EditionMorning.ShortLabel())
	require.Equal(t, "Evening", EditionEvening.Label())
	require.Equal(t, "PM", EditionEvening.ShortLabel())
}

func TestDefaultFeeds(t *testing.T) {
	t.Parallel()

	// У каждой категории есть каталог по умолчанию.
	for _, category := range Categories() {
		feeds := DefaultFeeds(category)
		require.NotEmpty(t, feeds, "category %s", category)

		for _, feed := range feeds {
			require.NotEmpty(t, feed.Name)
			require.Contains(t, feed.URL, "http")
		}
	}

	require.Empty(t, DefaultFeeds(Category("politics")))
}
