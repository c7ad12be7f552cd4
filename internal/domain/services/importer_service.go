package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// InterfaceImporterService 定义线索导入服务接口
type InterfaceImporterService interface {
	ParseLeadFile(data []byte, filename string) ([]models.ImportedLead, error)
	ValidateLeads(leads []models.ImportedLead) []models.ImportValidation
	BuildImportTemplate() ([]byte, error)
}

// ImporterService 解析上传的表格文件（xlsx/csv）为规范化线索记录
type ImporterService struct {
	Config *config.Config
}

// NewImporterService 创建一个新的线索导入服务
func NewImporterService(cfg *config.Config) InterfaceImporterService {
	return &ImporterService{Config: cfg}
}

// 表头同义词字典：规范化后的表头 -> 规范字段名。未命中的表头直接忽略
var headerFieldMap = map[string]string{
	"name":           "name",
	"full_name":      "name",
	"contact_name":   "name",
	"client_name":    "name",
	"lead_name":      "name",
	"email":          "email",
	"email_address":  "email",
	"e_mail":         "email",
	"phone":          "phone",
	"mobile":         "phone",
	"phone_number":   "phone",
	"mobile_number":  "phone",
	"contact_number": "phone",
	"tel":            "phone",
	"status":         "status",
	"lead_status":    "status",
	"priority":       "priority",
	"lead_priority":  "priority",
	"source":         "source",
	"lead_source":    "source",
	"location":       "location",
	"city":           "location",
	"area":           "location",
	"budget":         "budget",
	"price_range":    "budget",
	"notes":          "notes",
	"note":           "notes",
	"comments":       "notes",
	"remarks":        "notes",
	"contact_status": "contact_status",
	"client_status":  "contact_status",
	"interest_tags":  "interest_tags",
	"interests":      "interest_tags",
	"tags":           "interest_tags",
	"contact_pref":   "contact_pref",
	"preferred_contact":  "contact_pref",
	"contact_preference": "contact_pref",
}

// 导入模板表头
var leadImportHeader = []string{
	"Full Name", "Email", "Phone", "Status", "Priority", "Source",
	"Location", "Budget", "Interest Tags", "Contact Pref", "Notes",
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// 1 ParseLeadFile 解析上传文件的第一个工作表。
// 首行为表头，表头规范化后经同义词字典映射到规范字段；没有name的行整行丢弃
func (s *ImporterService) ParseLeadFile(data []byte, filename string) ([]models.ImportedLead, error) {
	var rows [][]string
	var err error

	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		rows, err = readCSVRows(data)
	} else {
		rows, err = readSheetRows(data)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.New("线索文件解析失败")
	}

	// 规范化表头并建立列号到字段名的映射
	fieldByCol := make(map[int]string)
	for col, header := range rows[0] {
		key := utils.NormalizeKey(header)
		if field, ok := headerFieldMap[key]; ok {
			fieldByCol[col] = field
		}
	}

	var leads []models.ImportedLead
	for i, row := range rows[1:] {
		record := make(map[string]string)
		for col, cell := range row {
			field, ok := fieldByCol[col]
			if !ok {
				continue
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			record[field] = value
		}

		// 没有name的行整行丢弃
		if record["name"] == "" {
			continue
		}

		lead := models.ImportedLead{
			RowNumber:    i + 2, // 首行为表头，数据行从第2行起
			Name:         record["name"],
			Email:        record["email"],
			Phone:        record["phone"],
			Source:       record["source"],
			Location:     record["location"],
			Budget:       record["budget"],
			Notes:        record["notes"],
			InterestTags: utils.SplitList(record["interest_tags"]),
			ContactPref:  utils.SplitList(record["contact_pref"]),
			Status:       inferLeadStatus(record),
			Priority:     normalizePriority(record["priority"]),
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

// 2 ValidateLeads 对解析结果做独立校验。
// 校验不阻断导入，每条记录返回可直接展示的消息列表
func (s *ImporterService) ValidateLeads(leads []models.ImportedLead) []models.ImportValidation {
	results := make([]models.ImportValidation, 0, len(leads))
	for _, lead := range leads {
		var messages []string

		if len(strings.TrimSpace(lead.Name)) < 2 {
			messages = append(messages, "Name must be at least 2 characters")
		}
		if lead.Email != "" && !emailRegex.MatchString(lead.Email) {
			messages = append(messages, "Invalid email format")
		}
		if lead.Phone != "" && len(utils.DigitsOnly(lead.Phone)) < 10 {
			messages = append(messages, "Phone must contain at least 10 digits")
		}
		if lead.Email == "" && lead.Phone == "" {
			messages = append(messages, "Either email or phone is required")
		}

		results = append(results, models.ImportValidation{
			RowNumber: lead.RowNumber,
			Valid:     len(messages) == 0,
			Messages:  messages,
		})
	}
	return results
}

// 3 BuildImportTemplate 生成线索导入模板Excel文件
func (s *ImporterService) BuildImportTemplate() ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Leads"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err == nil {
		endCol, _ := excelize.ColumnNumberToName(len(leadImportHeader))
		f.SetCellStyle(sheetName, "A1", endCol+"1", headerStyle)
	}

	for col, header := range leadImportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, err
	}
	f.Close()
	return buf.Bytes(), nil
}

// readSheetRows 读取xlsx第一个工作表的全部行
func readSheetRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New("线索文件解析失败")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("线索文件解析失败")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.New("线索文件解析失败")
	}
	return rows, nil
}

// readCSVRows 读取csv全部行（csv等价于单工作表）
func readCSVRows(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New("线索文件解析失败")
	}
	return rows, nil
}

// inferLeadStatus 推断线索状态。
// 有显式status时原样使用；否则按contact_status和notes的启发式规则推断
func inferLeadStatus(record map[string]string) string {
	if status := record["status"]; status != "" {
		return strings.ToLower(strings.TrimSpace(status))
	}

	contactStatus := strings.ToLower(record["contact_status"])
	if strings.Contains(contactStatus, "active") || strings.Contains(contactStatus, "client") {
		return models.LeadStatusContacted
	}
	if strings.Contains(contactStatus, "past") {
		return models.LeadStatusLost
	}
	if len(record["notes"]) > 20 {
		return models.LeadStatusContacted
	}
	return models.LeadStatusNew
}

// normalizePriority 优先级收敛到{low, medium, high}。
// 未提供时为空交给模型默认值，提供但不在集合内时取medium
func normalizePriority(p string) string {
	if p == "" {
		return models.LeadPriorityMedium
	}
	return models.ValidLeadPriority(strings.ToLower(strings.TrimSpace(p)))
}
