// Package document defines the block intermediate representation shared by
// every exporter. Builders assemble the IR from typed results exactly once;
// text, PDF and DOCX rendering all walk the same blocks.
package document

import (
	"fmt"
	"sort"

	"jobkit/internal/types"
)

// Kind identifies the rendering role of a block
type Kind string

const (
	KindHeading    Kind = "heading"
	KindSubheading Kind = "subheading"
	KindBullet     Kind = "bullet"
	KindParagraph  Kind = "paragraph"
)

// Block is one renderable unit of a document
type Block struct {
	Kind Kind
	Text string
}

// Document is the exporter-independent representation of an output document
type Document struct {
	Title  string
	Blocks []Block
}

func (d *Document) heading(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: KindHeading, Text: text})
}

func (d *Document) subheading(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: KindSubheading, Text: text})
}

func (d *Document) bullet(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: KindBullet, Text: text})
}

func (d *Document) paragraph(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: KindParagraph, Text: text})
}

// field appends a "Label: value" paragraph, skipping empty values
func (d *Document) field(label, value string) {
	if value == "" {
		return
	}
	d.paragraph(label + ": " + value)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// JobDescriptionDocument builds the IR for a generated job description,
// following the section order of the position description template.
func JobDescriptionDocument(jd types.JobDescription) Document {
	doc := Document{Title: "Job Description: " + jd.JobInfo.JobWorkingTitle}

	doc.heading("Classification Job Information")
	doc.field("SAP Job ID", jd.ClassificationInfo.SAPJobID)
	doc.field("Position Classification Title", jd.ClassificationInfo.PositionClassificationTitle)
	doc.field("Pay Grade", jd.ClassificationInfo.PayGrade)
	doc.field("Add-On Eligibility", jd.ClassificationInfo.AddOnEligibility)
	doc.field("Standardized", yesNo(jd.ClassificationInfo.Standardized))
	doc.field("Inactive", yesNo(jd.ClassificationInfo.Inactive))
	doc.field("Date Last Evaluated", jd.ClassificationInfo.DateLastEvaluated)

	doc.heading("Job Information")
	doc.field("Job Working Title", jd.JobInfo.JobWorkingTitle)
	doc.field("Department", jd.JobInfo.Department)
	doc.field("Division/Section", jd.JobInfo.DivisionSection)
	doc.field("Reports To", jd.JobInfo.ReportsTo)
	doc.field("Reports To SAP ID", jd.JobInfo.ReportsToSAPID)
	doc.field("Exclusion Status", string(jd.JobInfo.ExclusionStatus))

	doc.heading("Overall Purpose")
	doc.paragraph(jd.OverallPurpose.PurposeText)

	doc.heading("Key Responsibilities")
	for _, r := range jd.KeyResponsibilities.Responsibilities {
		doc.bullet(r)
	}

	doc.heading("People Management")
	doc.field("Type of Role", jd.PeopleManagement.TypeOfRole)
	doc.field("Number of Direct Reports", jd.PeopleManagement.NumDirectReports)
	doc.field("Classifications of Direct Reports", jd.PeopleManagement.ClassificationsOfDirectReports)
	doc.field("Number of Indirect Reports", jd.PeopleManagement.NumIndirectReports)
	doc.field("Other Resources", jd.PeopleManagement.OtherResources)

	doc.heading("Scope")
	doc.subheading("Contacts (Typical)")
	doc.paragraph(jd.Scope.ContactsTypical)
	doc.subheading("Innovation")
	doc.paragraph(jd.Scope.Innovation)
	doc.subheading("Decision Making")
	doc.paragraph(jd.Scope.DecisionMaking)
	doc.subheading("Impact of Results")
	doc.paragraph(jd.Scope.ImpactOfResults)
	if jd.Scope.Other != "" {
		doc.subheading("Other")
		doc.paragraph(jd.Scope.Other)
	}

	doc.heading("Licenses and Certifications")
	if len(jd.LicensesCertifications.Requirements) == 0 {
		doc.paragraph("None required.")
	}
	for _, req := range jd.LicensesCertifications.Requirements {
		doc.bullet(req)
	}

	doc.heading("Working Conditions")
	doc.subheading("Physical Effort")
	doc.paragraph(jd.WorkingConditions.PhysicalEffort)
	doc.subheading("Physical Environment")
	doc.paragraph(jd.WorkingConditions.PhysicalEnvironment)
	doc.subheading("Sensory Attention")
	doc.paragraph(jd.WorkingConditions.SensoryAttention)
	doc.subheading("Psychological Pressures")
	doc.paragraph(jd.WorkingConditions.PsychologicalPressures)

	doc.heading("Additional Information")
	if jd.Boilerplate.MayPerformOtherDuties != "" {
		doc.paragraph(jd.Boilerplate.MayPerformOtherDuties)
	}
	if jd.Boilerplate.AssignmentSpecificNote != "" {
		doc.paragraph(jd.Boilerplate.AssignmentSpecificNote)
	}
	if jd.Boilerplate.AdditionalInformation != "" {
		doc.paragraph(jd.Boilerplate.AdditionalInformation)
	}
	if jd.Boilerplate.DataFromConversion != "" {
		doc.paragraph(jd.Boilerplate.DataFromConversion)
	}

	return doc
}

// ComparisonDocument builds the IR for a standalone document comparison
func ComparisonDocument(res types.ComparisonResult) Document {
	doc := Document{Title: "Job Description Comparison"}
	appendComparisonSections(&doc, res)
	return doc
}

func appendComparisonSections(doc *Document, res types.ComparisonResult) {
	doc.heading("Comparison Summary")
	doc.field("Old Document", res.OldDocument)
	doc.field("New Document", res.NewDocument)
	doc.paragraph(res.Summary)
	doc.field("Overall Significance", res.OverallSignificance)

	if len(res.ChangesBySection) > 0 {
		doc.heading("Changes by Section")
		for _, section := range sortedKeys(res.ChangesBySection) {
			changes := res.ChangesBySection[section]
			doc.subheading(section)
			for _, a := range changes.Additions {
				doc.bullet("Added: " + a)
			}
			for _, d := range changes.Deletions {
				doc.bullet("Removed: " + d)
			}
			for _, m := range changes.Modifications {
				doc.bullet("Modified: " + m)
			}
		}
	}

	if len(res.ClassificationRelevantChanges) > 0 {
		doc.heading("Classification-Relevant Changes")
		for _, category := range sortedKeys(res.ClassificationRelevantChanges) {
			doc.subheading(category)
			for _, change := range res.ClassificationRelevantChanges[category] {
				doc.bullet(change)
			}
		}
	}
}

// GaugeDocument builds the IR for a standalone revaluation assessment
func GaugeDocument(rec types.RevaluationRecommendation) Document {
	doc := Document{Title: "Revaluation Assessment"}
	appendGaugeSections(&doc, rec)
	return doc
}

func appendGaugeSections(doc *Document, rec types.RevaluationRecommendation) {
	doc.heading("Revaluation Assessment")
	doc.field("Should Reevaluate", yesNo(rec.ShouldReevaluate))
	doc.field("Confidence", fmt.Sprintf("%d%%", rec.Confidence))
	doc.field("Current Level", rec.CurrentLevel)
	doc.field("Likely New Level Range", rec.LikelyNewLevelRange)
	doc.field("Risk Assessment", rec.RiskAssessment)

	doc.subheading("Rationale")
	doc.paragraph(rec.Rationale)

	if len(rec.KeyFactors) > 0 {
		doc.subheading("Key Factors")
		for _, f := range rec.KeyFactors {
			doc.bullet(f)
		}
	}
	if len(rec.CategoriesAffected) > 0 {
		doc.subheading("Categories Affected")
		for _, c := range rec.CategoriesAffected {
			doc.bullet(c)
		}
	}
}

// ClassificationDocument builds the IR for a classification recommendation
func ClassificationDocument(rec types.ClassificationRecommendation) Document {
	doc := Document{Title: "Classification Recommendation: " + rec.PositionTitle}
	appendClassificationSections(&doc, rec)
	return doc
}

func appendClassificationSections(doc *Document, rec types.ClassificationRecommendation) {
	doc.heading("Classification Recommendation")
	doc.field("Position Title", rec.PositionTitle)
	doc.field("Recommended Level", rec.RecommendedLevel)
	doc.field("Confidence", fmt.Sprintf("%d%%", rec.Confidence))
	doc.field("Previous Level", rec.PreviousLevel)
	doc.field("Change Context Used", yesNo(rec.ChangeContextUsed))

	doc.subheading("Rationale")
	doc.paragraph(rec.Rationale)

	if len(rec.CategoryAnalysis) > 0 {
		doc.subheading("Category Analysis")
		for _, category := range sortedKeys(rec.CategoryAnalysis) {
			doc.bullet(category + ": " + rec.CategoryAnalysis[category])
		}
	}
	if len(rec.SupportingEvidence) > 0 {
		doc.subheading("Supporting Evidence")
		for _, e := range rec.SupportingEvidence {
			doc.bullet(e)
		}
	}
	if len(rec.AlternativeLevels) > 0 {
		doc.subheading("Alternative Levels")
		for _, l := range rec.AlternativeLevels {
			doc.bullet(l)
		}
	}
	if len(rec.ComparablePositions) > 0 {
		doc.subheading("Comparable Positions")
		for _, p := range rec.ComparablePositions {
			doc.bullet(p)
		}
	}
	if len(rec.Warnings) > 0 {
		doc.subheading("Warnings")
		for _, w := range rec.Warnings {
			doc.bullet(w)
		}
	}
}

// EvaluationDocument builds the IR for a full-workflow evaluation report
func EvaluationDocument(report types.EvaluationReport) Document {
	doc := Document{Title: "Job Evaluation Report"}
	appendComparisonSections(&doc, report.Comparison)
	appendGaugeSections(&doc, report.Gauge)
	appendClassificationSections(&doc, report.Classification)
	return doc
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
