package Reports

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"InspectionPro/Checklist"
	"InspectionPro/Models"
)

// FormatMeasurement renders a measurement as feet and inches, omitting a unit
// whose magnitude is zero. No recorded value renders as "-".
func FormatMeasurement(value *Models.MeasurementValue) string {
	if value == nil {
		return "-"
	}
	parts := make([]string, 0, 2)
	if value.Feet != 0 {
		parts = append(parts, fmt.Sprintf("%d'", value.Feet))
	}
	if value.Inches != 0 {
		parts = append(parts, fmt.Sprintf("%d\"", value.Inches))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("January 2, 2006")
}

// View models handed to the report template. Everything is precomputed so the
// template itself stays free of logic.

type photoView struct {
	URL string
	Alt string
}

type itemView struct {
	Name          string
	Description   string
	IsMeasurement bool
	Measurement   string
	StatusLabel   string
	StatusColor   string
	StatusBg      string
	IsLast        bool
	Photos        []photoView
}

type categoryView struct {
	Name  string
	Items []itemView
}

type reportView struct {
	CompanyName    string
	CompanyLogo    string
	CompanyPhone   string
	CompanyEmail   string
	HasCompany     bool
	ProjectName    string
	ReportNumber   string
	ReportDate     string
	ProjectAddress string
	ClientName     string
	InspectionDate string
	InspectorName  string
	Categories     []categoryView
	Notes          string
	NextDueDate    string
	GeneratedOn    string
}

// RenderHTML produces the self-contained inspection report markup. The output
// is deterministic for fixed inputs: the only wall-clock element, the
// generated-on footer and the next-due date derived from it, comes in through
// now. All styles are inline because the downstream rasterizer may not fetch
// external resources.
func RenderHTML(inspection Models.Inspection, groups []Checklist.CategoryGroup, company *Models.Company, now time.Time) (string, error) {
	view := reportView{
		CompanyName:  "Inspection Report",
		ProjectName:  inspection.ProjectName,
		ReportNumber: inspection.ReportNumber(),
		Notes:        inspection.Notes,
		GeneratedOn:  now.Format("January 2, 2006 03:04 PM"),
	}

	// Next inspection is due one year after the report is generated, not one
	// year after the inspection itself.
	nextDue := now.AddDate(1, 0, 0)
	view.NextDueDate = formatDate(&nextDue)

	if company != nil {
		view.HasCompany = true
		view.CompanyName = company.Name
		view.CompanyLogo = company.LogoURL
		view.CompanyPhone = company.Phone
		view.CompanyEmail = company.Email
	}

	reportDate := inspection.ScheduledDate
	if reportDate == nil {
		created := inspection.CreatedAt
		reportDate = &created
	}
	view.ReportDate = formatDate(reportDate)
	view.InspectionDate = formatDate(inspection.ScheduledDate)

	view.ProjectAddress = orNA(inspection.ProjectAddress)
	view.ClientName = orNA(inspection.ClientName)

	inspectorName := inspection.Inspector.FullName
	if inspectorName == "" {
		inspectorName = inspection.HcpAssignedEmployee
	}
	view.InspectorName = orNA(inspectorName)

	for _, group := range groups {
		cat := categoryView{Name: group.Category}
		for i, item := range group.Items {
			iv := itemView{
				Name:          item.Name,
				Description:   item.Description,
				IsMeasurement: item.ItemType == Models.ItemTypeMeasurement,
				IsLast:        i == len(group.Items)-1,
			}
			if iv.IsMeasurement {
				iv.Measurement = FormatMeasurement(item.Measurement())
			} else {
				cfg := Checklist.StatusConfig(item.Status)
				iv.StatusLabel = cfg.Label
				iv.StatusColor = cfg.Color
				iv.StatusBg = cfg.BgColor
			}
			for _, photo := range item.Photos {
				alt := photo.Caption
				if alt == "" {
					alt = item.Name
				}
				iv.Photos = append(iv.Photos, photoView{URL: photo.PhotoURL, Alt: alt})
			}
			cat.Items = append(cat.Items, iv)
		}
		view.Categories = append(view.Categories, cat)
	}

	var out strings.Builder
	if err := reportTemplate.Execute(&out, view); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out.String(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
* { box-sizing: border-box; margin: 0; padding: 0; -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f5f5f5; color: #212121; line-height: 1.5; }
@page { margin: 10mm; }
@media print { body { background-color: white; -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; } }
</style>
</head>
<body>
<div style="background: linear-gradient(135deg, #1E3A5F 0%, #2E5077 100%); padding: 32px; color: white; margin-bottom: 24px;">
  <div style="display: flex; justify-content: space-between; align-items: flex-start;">
    <div style="display: flex; align-items: flex-start; gap: 16px;">
      {{if .CompanyLogo}}<img src="{{.CompanyLogo}}" alt="{{.CompanyName}}" style="width: 64px; height: 64px; object-fit: contain; border-radius: 8px; background: white;" />{{end}}
      <div>
        <h1 style="font-size: 24px; font-weight: 700; margin: 0 0 8px 0;">{{.CompanyName}}</h1>
        <h2 style="font-size: 18px; font-weight: 600; margin: 0 0 4px 0; opacity: 0.95;">Inspection Report</h2>
        <p style="font-size: 14px; opacity: 0.9; margin: 0;">{{.ProjectName}}</p>
      </div>
    </div>
    <div style="text-align: right; font-size: 14px; opacity: 0.9;">
      <p style="margin: 0;">Report #{{.ReportNumber}}</p>
      <p style="margin: 4px 0 0 0;">{{.ReportDate}}</p>
    </div>
  </div>
</div>
<div style="background: white; padding: 24px; margin: 0 24px 24px 24px; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">
  <h2 style="font-size: 18px; font-weight: 600; color: #1E3A5F; margin-bottom: 16px; padding-bottom: 8px; border-bottom: 2px solid #1E3A5F;">Project Information</h2>
  <div style="display: grid; grid-template-columns: 1fr 1fr; gap: 16px;">
    <div>
      <p style="font-size: 12px; color: #6b7280; margin-bottom: 4px;">Address</p>
      <p style="font-size: 14px; color: #374151;">{{.ProjectAddress}}</p>
    </div>
    <div>
      <p style="font-size: 12px; color: #6b7280; margin-bottom: 4px;">Client</p>
      <p style="font-size: 14px; color: #374151;">{{.ClientName}}</p>
    </div>
    <div>
      <p style="font-size: 12px; color: #6b7280; margin-bottom: 4px;">Inspection Date</p>
      <p style="font-size: 14px; color: #374151;">{{.InspectionDate}}</p>
    </div>
    <div>
      <p style="font-size: 12px; color: #6b7280; margin-bottom: 4px;">Inspector</p>
      <p style="font-size: 14px; color: #374151;">{{.InspectorName}}</p>
    </div>
  </div>
</div>
<div style="margin: 0 24px 24px 24px;">
  <h2 style="font-size: 18px; font-weight: 600; color: #1E3A5F; margin-bottom: 16px; padding-bottom: 8px; border-bottom: 2px solid #1E3A5F;">Checklist Results</h2>
  {{range .Categories}}
  <div style="margin-bottom: 24px; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">
    <div style="background: #f9fafb; padding: 12px 16px; border-bottom: 1px solid #e5e7eb;">
      <h3 style="margin: 0; font-size: 16px; font-weight: 600; color: #1E3A5F;">{{.Name}}</h3>
    </div>
    <div>
      {{range .Items}}
      <div style="padding: 12px 16px; {{if not .IsLast}}border-bottom: 1px solid #f3f4f6;{{end}}">
        <div style="display: flex; justify-content: space-between; align-items: center;">
          <div style="flex: 1;">
            <div style="font-size: 14px; color: #374151;">{{.Name}}</div>
            {{if .Description}}<div style="font-size: 12px; color: #9ca3af; margin-top: 2px;">{{.Description}}</div>{{end}}
          </div>
          {{if .IsMeasurement}}
          <div style="font-size: 14px; font-weight: 600; color: #1E3A5F;">{{.Measurement}}</div>
          {{else}}
          <span style="display: inline-block; padding: 4px 12px; border-radius: 4px; font-size: 12px; font-weight: 600; background-color: {{.StatusBg}}; color: {{.StatusColor}};">{{.StatusLabel}}</span>
          {{end}}
        </div>
        {{if .Photos}}
        <div style="display: flex; flex-wrap: wrap; gap: 8px; margin-top: 8px; padding-top: 8px;">
          {{range .Photos}}<img src="{{.URL}}" alt="{{.Alt}}" style="width: 80px; height: 80px; object-fit: cover; border-radius: 4px; border: 1px solid #e5e7eb;" />{{end}}
        </div>
        {{end}}
      </div>
      {{end}}
    </div>
  </div>
  {{end}}
</div>
{{if .Notes}}
<div style="background: white; padding: 24px; margin: 0 24px 24px 24px; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); page-break-inside: avoid;">
  <h2 style="font-size: 18px; font-weight: 600; color: #1E3A5F; margin-bottom: 16px; padding-bottom: 8px; border-bottom: 2px solid #1E3A5F;">Inspector Notes</h2>
  <p style="font-size: 14px; color: #374151; white-space: pre-wrap; line-height: 1.6;">{{.Notes}}</p>
</div>
{{end}}
<div style="background: #FFF8E1; border: 1px solid #FFE082; border-left: 4px solid #FFA000; padding: 20px 24px; margin: 0 24px 24px 24px; border-radius: 8px;">
  <p style="font-size: 14px; color: #5D4037; line-height: 1.6; margin: 0;">
    <strong>Important:</strong> The National Fire Protection Association (NFPA) Standard 211 states that chimneys, fireplaces, and vents shall be inspected at least once a year for soundness, freedom from deposits, and correct clearances.
  </p>
  <p style="font-size: 16px; font-weight: 600; color: #1E3A5F; margin-top: 16px; margin-bottom: 0;">
    Your next inspection is recommended by: {{.NextDueDate}}
  </p>
</div>
<div style="margin: 32px 24px; padding-top: 24px; border-top: 1px solid #e5e7eb; text-align: center; color: #6b7280; font-size: 12px;">
  <p>Report generated on {{.GeneratedOn}}</p>
  {{if .HasCompany}}<p style="margin-top: 4px;">{{.CompanyName}}{{if .CompanyPhone}} | {{.CompanyPhone}}{{end}}{{if .CompanyEmail}} | {{.CompanyEmail}}{{end}}</p>{{end}}
  <p style="margin-top: 8px; font-size: 10px; color: #9ca3af;">This inspection report was generated using Construction Inspection Pro</p>
</div>
</body>
</html>
`))
