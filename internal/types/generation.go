package types

// OrgContext holds the organizational defaults interpolated into every
// generation prompt. It is replaced wholesale by the config endpoint.
type OrgContext struct {
	OrganizationName        string `json:"organization_name" validate:"required"`
	Industry                string `json:"industry"`
	Location                string `json:"location"`
	OrganizationDescription string `json:"organization_description"`
}

// UserResponses captures the interview answers that drive a generation run
type UserResponses struct {
	JobTitle                 string `json:"job_title" validate:"required"`
	Department               string `json:"department" validate:"required"`
	DivisionSection          string `json:"division_section"`
	ReportsTo                string `json:"reports_to" validate:"required"`
	PrimaryResponsibilities  string `json:"primary_responsibilities" validate:"required"`
	KeyDeliverables          string `json:"key_deliverables"`
	UniqueAspects            string `json:"unique_aspects"`
	ManagesPeople            bool   `json:"manages_people"`
	NumDirectReports         string `json:"num_direct_reports"`
	NumIndirectReports       string `json:"num_indirect_reports"`
	OtherResourcesManaged    string `json:"other_resources_managed"`
	KeyContacts              string `json:"key_contacts"`
	DecisionAuthority        string `json:"decision_authority"`
	InnovationProblemSolving string `json:"innovation_problem_solving"`
	ImpactOfResults          string `json:"impact_of_results"`
	SpecialRequirements      string `json:"special_requirements"`
}

// ExclusionStatus is the bargaining-unit exclusion marker on a position
type ExclusionStatus string

const (
	Excluded    ExclusionStatus = "Excluded"
	NonExcluded ExclusionStatus = "Non-Excluded"
)

// RoleLevel is an internal seniority assessment used to calibrate later
// stages. It never appears in the rendered document.
type RoleLevel string

const (
	RoleLevelEntry     RoleLevel = "entry"
	RoleLevelMid       RoleLevel = "mid"
	RoleLevelSenior    RoleLevel = "senior"
	RoleLevelExecutive RoleLevel = "executive"
)

// ClassificationJobInformation is the administrative header block
type ClassificationJobInformation struct {
	SAPJobID                    string `json:"sap_job_id"`
	PositionClassificationTitle string `json:"position_classification_title"`
	PayGrade                    string `json:"pay_grade"`
	AddOnEligibility            string `json:"add_on_eligibility"`
	Standardized                bool   `json:"standardized"`
	Inactive                    bool   `json:"inactive"`
	DateLastEvaluated           string `json:"date_last_evaluated"` // MM/DD/YYYY
}

// JobInformation identifies the position within the organization
type JobInformation struct {
	JobWorkingTitle string          `json:"job_working_title" validate:"required"`
	Department      string          `json:"department" validate:"required"`
	DivisionSection string          `json:"division_section"`
	ReportsTo       string          `json:"reports_to" validate:"required"`
	ReportsToSAPID  string          `json:"reports_to_sap_id"`
	ExclusionStatus ExclusionStatus `json:"exclusion_status" validate:"required,oneof=Excluded Non-Excluded"`
}

// OverallPurpose is the narrative summary of why the position exists
type OverallPurpose struct {
	PurposeText string `json:"purpose_text" validate:"required"`
}

// RoleLevelAssessment is the model's inferred seniority with reasoning
type RoleLevelAssessment struct {
	InferredLevel RoleLevel `json:"inferred_level" validate:"required,oneof=entry mid senior executive"`
	Reasoning     string    `json:"reasoning"`
}

// KeyResponsibilities holds the bulleted duties of the position
type KeyResponsibilities struct {
	Responsibilities []string `json:"responsibilities" validate:"required,min=6,max=10,dive,required"`
}

// PeopleManagement describes the supervisory shape of the position
type PeopleManagement struct {
	TypeOfRole                     string `json:"type_of_role" validate:"required,oneof='Individual Contributor' 'Manages/Supervises People'"`
	NumDirectReports               string `json:"num_direct_reports"`
	ClassificationsOfDirectReports string `json:"classifications_of_direct_reports"`
	NumIndirectReports             string `json:"num_indirect_reports"`
	OtherResources                 string `json:"other_resources"`
}

// ScopeSection covers the four scope dimensions of the template
type ScopeSection struct {
	ContactsTypical string `json:"contacts_typical" validate:"required"`
	Innovation      string `json:"innovation" validate:"required"`
	DecisionMaking  string `json:"decision_making" validate:"required"`
	ImpactOfResults string `json:"impact_of_results" validate:"required"`
	Other           string `json:"other"`
}

// LicensesCertifications lists required (never preferred) credentials
type LicensesCertifications struct {
	Requirements []string `json:"requirements"`
}

// WorkingConditions holds the four standard working-conditions subsections
type WorkingConditions struct {
	PhysicalEffort         string `json:"physical_effort" validate:"required"`
	PhysicalEnvironment    string `json:"physical_environment" validate:"required"`
	SensoryAttention       string `json:"sensory_attention" validate:"required"`
	PsychologicalPressures string `json:"psychological_pressures" validate:"required"`
}

// BoilerplateElements carries fixed template text appended to every document
type BoilerplateElements struct {
	MayPerformOtherDuties  string `json:"may_perform_other_duties"`
	AssignmentSpecificNote string `json:"assignment_specific_note"`
	AdditionalInformation  string `json:"additional_information,omitempty"`
	DataFromConversion     string `json:"data_from_conversion,omitempty"`
}

// UsageSummary aggregates token counts and estimated cost across all stages
// of one generation run
type UsageSummary struct {
	TotalInputTokens  int64   `json:"total_input_tokens"`
	TotalOutputTokens int64   `json:"total_output_tokens"`
	TotalTokens       int64   `json:"total_tokens"`
	CostUSD           float64 `json:"cost_usd"`
	CostCAD           float64 `json:"cost_cad"`
}

// JobDescription is the assembled output of a full generation run
type JobDescription struct {
	ClassificationInfo     ClassificationJobInformation `json:"classification_info"`
	JobInfo                JobInformation               `json:"job_info"`
	OverallPurpose         OverallPurpose               `json:"overall_purpose"`
	KeyResponsibilities    KeyResponsibilities          `json:"key_responsibilities"`
	PeopleManagement       PeopleManagement             `json:"people_management"`
	Scope                  ScopeSection                 `json:"scope"`
	LicensesCertifications LicensesCertifications       `json:"licenses_certifications"`
	WorkingConditions      WorkingConditions            `json:"working_conditions"`
	Boilerplate            BoilerplateElements          `json:"boilerplate"`
	Usage                  UsageSummary                 `json:"usage"`
}

// JobInfoResult bundles the outputs of the first generation stage
type JobInfoResult struct {
	JobInfo        JobInformation      `json:"job_info"`
	OverallPurpose OverallPurpose      `json:"overall_purpose"`
	RoleLevel      RoleLevelAssessment `json:"role_level_assessment"`
}
