package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docsynth/internal/types"
)

func TestReference(t *testing.T) {
	tests := []struct {
		name string
		doc  types.Document
		want string
	}{
		{name: "quotation", doc: types.NewQuotation(types.QuotationDocument{Number: "COT-20261014-0003"}), want: "COT-20261014-0003"},
		{name: "project", doc: types.NewProject(types.ProjectDocument{Code: "PRY-RES-001"}), want: "PRY-RES-001"},
		{name: "report", doc: types.NewReport(types.ReportDocument{Code: "INF-SPT-001"}), want: "INF-SPT-001"},
		{name: "empty", doc: types.Document{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reference(tt.doc))
		})
	}
}

func TestClientOf(t *testing.T) {
	doc := types.NewReport(types.ReportDocument{Client: "Constructora Andina"})
	assert.Equal(t, "Constructora Andina", clientOf(doc))
}

func TestListOptions_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   ListOptions
		want ListOptions
	}{
		{name: "zero", in: ListOptions{}, want: ListOptions{Limit: DefaultListLimit}},
		{name: "too large", in: ListOptions{Limit: 1000, Offset: 5}, want: ListOptions{Limit: MaxListLimit, Offset: 5}},
		{name: "negative offset", in: ListOptions{Limit: 3, Offset: -2}, want: ListOptions{Limit: 3}},
		{name: "kind kept", in: ListOptions{Kind: types.KindReport, Limit: 7}, want: ListOptions{Kind: types.KindReport, Limit: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.normalized())
		})
	}
}

func TestMigrationFiles(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "00001_documents.sql", files[0])

	for _, name := range files {
		data, err := migrations.ReadFile(migrationsDir + "/" + name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "-- +goose Up"), name)
		assert.Contains(t, string(data), "-- +goose Down", name)
	}
}
