package main

import (
	"bytes"
	"testing"

	"github.com/ougirez/energy-mock/internal/pkg/constants"
	"github.com/ougirez/energy-mock/internal/service/importer"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"--help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "--force")
	assert.Contains(t, stdout.String(), "--house=XXXXX")
}

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"--bogus"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
}

func TestRun_MissingCredentials(t *testing.T) {
	t.Setenv("MCI_DB_USER", "")
	t.Setenv("MCI_MYSQL_USER", "")
	t.Setenv("MCI_DB_PASSWORD", "")
	t.Setenv("MCI_MYSQL_PASSWORD", "")
	t.Setenv("MCI_DB_DATABASE", "")
	t.Setenv("MCI_MYSQL_DATABASE", "")
	var stdout, stderr bytes.Buffer

	code := run([]string{"--force"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "database credentials not set")
}

func TestBindFlags(t *testing.T) {
	fs := newFlagSet(&bytes.Buffer{})
	require.NoError(t, fs.Parse([]string{"--force", "--house=2025080001", "--data-dir=/tmp/csv"}))

	v := viper.New()
	require.NoError(t, bindFlags(v, fs))

	assert.True(t, v.GetBool(constants.ViperImportForceKey))
	assert.Equal(t, "2025080001", v.GetString(constants.ViperImportHouseKey))
	assert.Equal(t, "/tmp/csv", v.GetString(constants.ViperCSVDataDirKey))
}

func TestProgressPrinter(t *testing.T) {
	var out bytes.Buffer
	p := progressPrinter(&out)

	p(importer.Progress{Inserted: 5000, Total: 5001})
	p(importer.Progress{Inserted: 5001, Total: 5001})

	assert.Equal(t, "\r  Inserted 5000/5001 rows\r  Inserted 5001/5001 rows\n", out.String())
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer

	printSummary(&out, &importer.Summary{
		Imported: []importer.HouseResult{{HouseID: "2025080001", Rows: 3}},
		Skipped: []importer.HouseResult{
			{HouseID: "2025080002", Existing: 10, Reason: importer.ReasonAlreadyImported},
			{File: "readme.csv", Reason: importer.ReasonBadFileName},
		},
	})

	assert.Contains(t, out.String(), "Skipped 2025080002: 10 rows already exist")
	assert.Contains(t, out.String(), "Skipped readme.csv: unrecognized file name")
	assert.Contains(t, out.String(), "1 imported, 2 skipped")
}
