package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemRowsPipeSeparated(t *testing.T) {
	page := `Advertisement No. 142 - Recruitment of Scientist 'B'
1. Electronics & Communication | BE/BTech in Electronics | EC
2) Mechanical Engineering | BE/BTech in Mechanical | ME
Candidates must have a valid GATE score.`

	rows := parseItemRows(page)
	require.Len(t, rows, 2)

	assert.Equal(t, ItemRow{
		ItemNo:                 "1",
		Discipline:             "Electronics & Communication",
		EssentialQualification: "BE/BTech in Electronics",
		GateCode:               "EC",
	}, rows[0])
	assert.Equal(t, "2", rows[1].ItemNo)
	assert.Equal(t, "ME", rows[1].GateCode)
}

func TestParseItemRowsWideColumnGaps(t *testing.T) {
	page := "3   Computer Science      BE/BTech in Computer Science      CS"

	rows := parseItemRows(page)
	require.Len(t, rows, 1)
	assert.Equal(t, "Computer Science", rows[0].Discipline)
	assert.Equal(t, "BE/BTech in Computer Science", rows[0].EssentialQualification)
	assert.Equal(t, "CS", rows[0].GateCode)
}

func TestParseItemRowsWithoutGateCode(t *testing.T) {
	page := "4. Naval Architecture | BE/BTech in Naval Architecture"

	rows := parseItemRows(page)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].GateCode)
	assert.Equal(t, "BE/BTech in Naval Architecture", rows[0].EssentialQualification)
}

func TestParseItemRowsIgnoresProse(t *testing.T) {
	page := `Applications are invited from Indian nationals.
The last date for submission is 30 days from publication.
Reservation as per Government of India rules.`

	assert.Empty(t, parseItemRows(page))
}

func TestParseItemRowsSkipsSingleColumnLines(t *testing.T) {
	// Numbered prose without a second column is not an item row.
	page := "1. All posts are temporary but likely to continue."

	assert.Empty(t, parseItemRows(page))
}

func TestExtractItemsFromMissingFile(t *testing.T) {
	_, err := ExtractItemsFromPDF("does-not-exist.pdf")
	assert.Error(t, err)
}
