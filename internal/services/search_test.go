package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandeptwidyaop/tool-catalog/internal/models"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
)

func searchFixture() []models.ToolPayload {
	return []models.ToolPayload{
		{
			ID:   "t-curl",
			Name: "curl",
			Commands: []models.CommandPayload{
				{ID: "c1", Name: "GET request", Template: "curl -s {target}", Category: "HTTP", Tags: []string{"http", "safe"}},
				{ID: "c2", Name: "HEAD request", Template: "curl -I {target}", Category: "HTTP", Tags: []string{"headers"}},
			},
		},
		{
			ID:   "t-nmap",
			Name: "nmap",
			Commands: []models.CommandPayload{
				{ID: "c3", Name: "Ping scan", Template: "nmap -sn {target}", Category: "Recon", Tags: []string{"safe"}},
			},
		},
	}
}

func TestFilterTools_NoFilters(t *testing.T) {
	tools := searchFixture()
	assert.Equal(t, tools, services.FilterTools(tools, "  ", ""))
}

func TestFilterTools_Query(t *testing.T) {
	filtered := services.FilterTools(searchFixture(), "curl", "")
	require.Len(t, filtered, 1)
	assert.Equal(t, "curl", filtered[0].Name)
	assert.Len(t, filtered[0].Commands, 2)

	assert.Empty(t, services.FilterTools(searchFixture(), "zzzz", ""))
}

func TestFilterTools_Category(t *testing.T) {
	filtered := services.FilterTools(searchFixture(), "", "recon")
	require.Len(t, filtered, 1)
	assert.Equal(t, "nmap", filtered[0].Name)
	require.Len(t, filtered[0].Commands, 1)
	assert.Equal(t, "c3", filtered[0].Commands[0].ID)
}

func TestFilterTools_QueryAndCategory(t *testing.T) {
	filtered := services.FilterTools(searchFixture(), "headers", "HTTP")
	require.Len(t, filtered, 1)
	require.Len(t, filtered[0].Commands, 1)
	assert.Equal(t, "c2", filtered[0].Commands[0].ID)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"HTTP", "Recon"}, services.Categories(searchFixture()))
	assert.Empty(t, services.Categories(nil))
}
