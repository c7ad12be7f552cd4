package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseLeadFileCSVHeaderSynonyms(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	csvData := strings.Join([]string{
		"Full Name,E-Mail,Mobile Number,Contact Status,Priority",
		"Jane Doe,,,,",
		"Ali Hassan,ali@example.com,+971501234567,Active Client,Urgent",
	}, "\n")

	leads, err := svc.ParseLeadFile([]byte(csvData), "leads.csv")
	require.NoError(t, err)
	require.Len(t, leads, 2)

	// 没有邮箱和电话、没有contact_status线索的行默认new
	jane := leads[0]
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, 2, jane.RowNumber)
	assert.Equal(t, models.LeadStatusNew, jane.Status)

	// contact_status含active的行推断为contacted，集合外优先级收敛为medium
	ali := leads[1]
	assert.Equal(t, "Ali Hassan", ali.Name)
	assert.Equal(t, "ali@example.com", ali.Email)
	assert.Equal(t, models.LeadStatusContacted, ali.Status)
	assert.Equal(t, models.LeadPriorityMedium, ali.Priority)
}

func TestValidateLeadsRequiresEmailOrPhone(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	leads := []models.ImportedLead{
		{RowNumber: 2, Name: "Jane Doe"},
		{RowNumber: 3, Name: "Ali Hassan", Email: "ali@example.com"},
	}

	results := svc.ValidateLeads(leads)
	require.Len(t, results, 2)

	assert.False(t, results[0].Valid)
	assert.Contains(t, results[0].Messages, "Either email or phone is required")

	assert.True(t, results[1].Valid)
	assert.Empty(t, results[1].Messages)
}

func TestValidateLeadsFieldRules(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	leads := []models.ImportedLead{
		{RowNumber: 2, Name: "X", Email: "not-an-email", Phone: "12345"},
	}

	results := svc.ValidateLeads(leads)
	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
	assert.Contains(t, results[0].Messages, "Name must be at least 2 characters")
	assert.Contains(t, results[0].Messages, "Invalid email format")
	assert.Contains(t, results[0].Messages, "Phone must contain at least 10 digits")
}

func TestParseLeadFileDropsRowsWithoutName(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	csvData := strings.Join([]string{
		"Name,Email",
		",orphan@example.com",
		"Kept Row,kept@example.com",
	}, "\n")

	leads, err := svc.ParseLeadFile([]byte(csvData), "leads.csv")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Kept Row", leads[0].Name)
	// 行号按原文件计，丢弃的行不重排后续行号
	assert.Equal(t, 3, leads[0].RowNumber)
}

func TestParseLeadFileIgnoresUnknownHeaders(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	csvData := strings.Join([]string{
		"Name,Email,Favorite Color",
		"Jane Doe,jane@example.com,teal",
	}, "\n")

	leads, err := svc.ParseLeadFile([]byte(csvData), "leads.csv")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "jane@example.com", leads[0].Email)
}

func TestParseLeadFileSplitsTagLists(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	csvData := strings.Join([]string{
		"Name,Email,Interest Tags,Contact Pref",
		`Jane Doe,jane@example.com,"villa; waterfront","email, whatsapp"`,
	}, "\n")

	leads, err := svc.ParseLeadFile([]byte(csvData), "leads.csv")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, []string{"villa", "waterfront"}, leads[0].InterestTags)
	assert.Equal(t, []string{"email", "whatsapp"}, leads[0].ContactPref)
}

func TestParseLeadFileHeaderOnlyFails(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	_, err := svc.ParseLeadFile([]byte("Name,Email"), "leads.csv")
	require.Error(t, err)
	assert.Equal(t, "线索文件解析失败", err.Error())
}

func TestParseLeadFileXLSX(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Lead Name", "Phone Number", "Lead Status"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"Omar Khan", "+971509998877", "Qualified"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	leads, err := svc.ParseLeadFile(buf.Bytes(), "leads.xlsx")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Omar Khan", leads[0].Name)
	assert.Equal(t, "+971509998877", leads[0].Phone)
	// 显式status原样小写使用
	assert.Equal(t, models.LeadStatusQualified, leads[0].Status)
}

func TestBuildImportTemplateRoundTrips(t *testing.T) {
	svc := NewImporterService(newTestConfig())

	data, err := svc.BuildImportTemplate()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Full Name", rows[0][0])
	assert.Contains(t, rows[0], "Email")
	assert.Contains(t, rows[0], "Phone")
}
