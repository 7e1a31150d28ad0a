package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobkit/internal/config"
	"jobkit/internal/types"
)

// DefaultSystemPrompts provides the default system instructions per operation
var DefaultSystemPrompts = map[string]string{
	OpJobInfo: `You are an expert HR classification analyst who writes formal position descriptions for public sector organizations. Your core principles are:

- Use only the information provided; never invent organizational details
- Write in formal, neutral position description language
- Describe the position, never the incumbent
- Assess seniority honestly from the evidence given`,

	OpResponsibilities: `You are an expert HR analyst who writes key responsibility statements for formal position descriptions. Your statements:

- Start with a present tense action verb
- Describe ongoing accountabilities, not one-time tasks
- Are specific enough to distinguish this position from its peers
- Never mention the incumbent or use personal pronouns`,

	OpPeopleManagement: `You are an expert HR analyst documenting the supervisory structure of positions. You classify each position as either an individual contributor or a people manager, strictly from the evidence provided, and record its reporting resources accurately.`,

	OpScope: `You are an expert HR analyst writing the scope section of formal position descriptions. You describe typical contacts, innovation expectations, decision making authority and the impact of results in measured, factual language proportionate to the position's seniority.`,

	OpRequirements: `You are an expert HR analyst documenting mandatory credentials for positions. You list only licenses, certifications, registrations and formal designations that are genuinely required to perform the role. Preferred or nice-to-have credentials are never included.`,

	OpWorkingConditions: `You are an expert HR analyst writing working conditions sections for formal position descriptions. You describe physical effort, physical environment, sensory attention and psychological pressures using standard classification language calibrated to the nature and seniority of the position.`,

	OpCompare: `You are an expert HR classification analyst comparing two versions of a position description. Your role is to:

- Identify every substantive addition, deletion and modification
- Group changes by document section
- Separate cosmetic wording changes from changes that affect classification
- Judge overall significance conservatively and consistently`,

	OpGauge: `You are an expert HR classification analyst advising whether a position should be formally reevaluated. You weigh documented changes against classification standards, estimate the realistic level range, and give a calibrated confidence and risk assessment. You recommend reevaluation only when changes are material to classification factors.`,

	OpClassify: `You are an expert HR classification analyst assigning positions to classification levels. Your principles are:

- Anchor every judgement in the classification standards provided
- Analyze each standard category separately before concluding
- Cite specific evidence from the position description
- State alternative levels when the evidence is ambiguous`,

	OpStandards: `You are an expert HR analyst converting a classification grade matrix document into structured data. You extract every classification level and every bullet point faithfully, without summarizing, rewording or omitting content.`,
}

// DefaultUserPrompts provides the default user prompt templates per
// operation. Placeholders are filled by the build*Prompt helpers below.
var DefaultUserPrompts = map[string]string{
	OpJobInfo: `Using the organization context and questionnaire responses below, produce the opening sections of a formal position description.

Return a JSON object with exactly these keys:
- "job_info": {"job_working_title", "department", "division_section", "reports_to", "reports_to_sap_id", "exclusion_status"} where exclusion_status is "Excluded" or "Non-Excluded"
- "overall_purpose": {"purpose_text"} a single paragraph stating why the position exists
- "role_level_assessment": {"inferred_level", "reasoning"} where inferred_level is one of "entry", "mid", "senior", "executive"

Organization Context:
-----
%s
-----

Questionnaire Responses:
-----
%s
-----`,

	OpResponsibilities: `Using the position context and questionnaire responses below, write the key responsibilities for this position.

Requirements:
- Between 6 and 10 responsibility statements
- Each starts with a present tense action verb
- Each describes an ongoing accountability of the position
- Order from most to least central

Return a JSON object: {"responsibilities": ["...", "..."]}

Position Context:
-----
%s
-----

Questionnaire Responses:
-----
%s
-----`,

	OpPeopleManagement: `Using the position context and questionnaire responses below, document the supervisory structure of this position.

Return a JSON object with exactly these keys:
- "type_of_role": "Individual Contributor" or "Manages/Supervises People"
- "num_direct_reports": number of direct reports as text, empty if none
- "classifications_of_direct_reports": classifications of direct reports, empty if none
- "num_indirect_reports": number of indirect reports as text, empty if none
- "other_resources": contractors, volunteers or budgets managed, empty if none

Position Context:
-----
%s
-----

Questionnaire Responses:
-----
%s
-----`,

	OpScope: `Using the position context and questionnaire responses below, write the scope section of this position description.

Return a JSON object with exactly these keys:
- "contacts_typical": who the position deals with and for what purpose
- "innovation": the degree of creativity and problem solving expected
- "decision_making": the authority and autonomy of the position
- "impact_of_results": the consequences of the position's work and errors
- "other": any additional scope considerations, empty if none

Each value is one or two sentences of formal position description prose proportionate to the position's seniority.

Position Context:
-----
%s
-----

Questionnaire Responses:
-----
%s
-----`,

	OpRequirements: `Using the position context and questionnaire responses below, list the licenses, certifications, registrations and formal designations that are mandatory for this position.

Rules:
- Include only credentials genuinely required to perform the role
- Never include preferred or nice-to-have credentials
- Return an empty list when nothing is mandatory

Return a JSON object: {"requirements": ["...", "..."]}

Position Context:
-----
%s
-----

Questionnaire Responses:
-----
%s
-----`,

	OpWorkingConditions: `Using the position context, questionnaire responses and baseline guidance below, write the working conditions section of this position description.

Return a JSON object with exactly these keys:
- "physical_effort"
- "physical_environment"
- "sensory_attention"
- "psychological_pressures"

Each value is one or two sentences. Start from the baseline guidance for this level of position and adjust only where the questionnaire gives concrete evidence.

Position Context:
-----
%s
-----

Questionnaire Responses:
-----
%s
-----

Baseline Guidance:
-----
%s
-----`,

	OpCompare: `Compare the two position description versions below and produce a structured analysis of what changed.

Return a JSON object with exactly these keys:
- "summary": a paragraph summarizing the changes
- "changes_by_section": object mapping section names to {"additions": [], "deletions": [], "modifications": []} where each modification reads "old -> new"
- "classification_relevant_changes": object mapping classification factor categories (accountabilities, knowledge_experience, decision_making, customer_relationship, leadership, project_management) to lists of changes relevant to that factor; include only affected categories
- "overall_significance": "minor", "moderate" or "major"

Cosmetic rewording belongs in changes_by_section but not in classification_relevant_changes.

Old Version:
-----
%s
-----

New Version:
-----
%s
-----`,

	OpGauge: `A position currently classified at %s has had its description revised. Using the comparison analysis and the classification standards excerpt below, advise whether the position should be formally reevaluated.

Return a JSON object with exactly these keys:
- "should_reevaluate": boolean
- "confidence": integer 0-100
- "current_level": the current classification level
- "likely_new_level_range": e.g. "EC-06 to EC-07", or the current level if no change is likely
- "rationale": a paragraph explaining the recommendation
- "key_factors": list of the decisive considerations
- "categories_affected": list of affected standard categories
- "risk_assessment": "low", "medium" or "high" risk of the current level being wrong

Comparison Analysis:
-----
%s
-----

Classification Standards:
-----
%s
-----`,

	OpClassify: `Classify the position described below against the classification standards provided.

Return a JSON object with exactly these keys:
- "position_title": the position's title
- "recommended_level": the recommended classification level, e.g. "EC-07"
- "confidence": integer 0-100
- "rationale": a paragraph justifying the recommendation
- "category_analysis": object mapping each standard category to a short analysis of how the position meets it
- "supporting_evidence": list of specific statements from the description that support the level
- "alternative_levels": list of plausible alternative levels, empty if none
- "comparable_positions": list of typical positions at the recommended level, empty if unknown

Position Description:
-----
%s
-----

Classification Standards:
-----
%s
-----
%s`,

	OpStandards: `The text below is an extracted EC grade matrix defining classification levels EC 1 through EC 17.

Return a JSON object with exactly this shape:

{"classification_levels": {"EC-01": {"level": 1, "title": "...", "grade_code": "...", "categories": {"accountabilities": ["..."], "knowledge_experience": ["..."], "decision_making": ["..."], "customer_relationship": ["..."], "leadership": ["..."], "project_management": ["..."]}}, "EC-02": {...}, ...}}

Rules:
- Extract every classification level present in the document
- Keys are zero-padded: "EC-01" through "EC-17"
- Capture every bullet point under each of the six categories
- Use empty lists for categories with no content at a level

Grade Matrix Text:
-----
%s
-----`,
}

// resolvePrompt selects the prompt with config overrides taking
// precedence over the built-in default. File-based overrides were already
// folded into the config at load time.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

func systemPromptFor(cfg *config.OperationAIConfig, operation string) string {
	return resolvePrompt(cfg.CustomPrompts.System, DefaultSystemPrompts[operation])
}

func userPromptFor(cfg *config.OperationAIConfig, operation string) string {
	return resolvePrompt(cfg.CustomPrompts.User, DefaultUserPrompts[operation])
}

// orgContextText renders the organization context for prompt interpolation
func orgContextText(org types.OrgContext) string {
	var b strings.Builder
	writeLine := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	writeLine("Organization", org.OrganizationName)
	writeLine("Industry", org.Industry)
	writeLine("Location", org.Location)
	writeLine("Description", org.OrganizationDescription)
	return strings.TrimSpace(b.String())
}

// questionnaireText renders the interview answers for prompt interpolation
func questionnaireText(r types.UserResponses) string {
	var b strings.Builder
	writeLine := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	writeLine("Job Title", r.JobTitle)
	writeLine("Department", r.Department)
	writeLine("Division/Section", r.DivisionSection)
	writeLine("Reports To", r.ReportsTo)
	writeLine("Primary Responsibilities", r.PrimaryResponsibilities)
	writeLine("Key Deliverables", r.KeyDeliverables)
	writeLine("Unique Aspects", r.UniqueAspects)
	if r.ManagesPeople {
		writeLine("Manages People", "yes")
		writeLine("Direct Reports", r.NumDirectReports)
		writeLine("Indirect Reports", r.NumIndirectReports)
		writeLine("Other Resources Managed", r.OtherResourcesManaged)
	} else {
		writeLine("Manages People", "no")
	}
	writeLine("Key Contacts", r.KeyContacts)
	writeLine("Decision Authority", r.DecisionAuthority)
	writeLine("Innovation and Problem Solving", r.InnovationProblemSolving)
	writeLine("Impact of Results", r.ImpactOfResults)
	writeLine("Special Requirements", r.SpecialRequirements)
	return strings.TrimSpace(b.String())
}

// positionContextText renders the accumulated pipeline state for stages
// that run after job_info
func positionContextText(gc GenerationContext) string {
	var b strings.Builder
	if org := orgContextText(gc.Org); org != "" {
		b.WriteString(org + "\n")
	}
	writeLine := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	writeLine("Position Title", gc.JobInfo.JobWorkingTitle)
	writeLine("Department", gc.JobInfo.Department)
	writeLine("Division/Section", gc.JobInfo.DivisionSection)
	writeLine("Reports To", gc.JobInfo.ReportsTo)
	writeLine("Overall Purpose", gc.Purpose.PurposeText)
	writeLine("Assessed Level", string(gc.RoleLevel.InferredLevel))
	if len(gc.Responsibilities) > 0 {
		b.WriteString("Key Responsibilities:\n")
		for _, r := range gc.Responsibilities {
			b.WriteString("- " + r + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// buildStagePrompt formats the prompts for a job description stage
func buildStagePrompt(cfg *config.OperationAIConfig, operation string, gc GenerationContext) (string, string) {
	system := systemPromptFor(cfg, operation)
	template := userPromptFor(cfg, operation)

	switch operation {
	case OpJobInfo:
		return system, fmt.Sprintf(template, orgContextText(gc.Org), questionnaireText(gc.Responses))
	case OpWorkingConditions:
		return system, fmt.Sprintf(template,
			positionContextText(gc), questionnaireText(gc.Responses), gc.TierGuidance)
	default:
		return system, fmt.Sprintf(template, positionContextText(gc), questionnaireText(gc.Responses))
	}
}

// buildComparePrompt formats the prompts for document comparison
func buildComparePrompt(cfg *config.OperationAIConfig, oldText, newText string) (string, string) {
	return systemPromptFor(cfg, OpCompare),
		fmt.Sprintf(userPromptFor(cfg, OpCompare), oldText, newText)
}

// buildGaugePrompt formats the prompts for revaluation assessment
func buildGaugePrompt(cfg *config.OperationAIConfig, input GaugeInput) (string, string) {
	comparisonJSON, err := json.MarshalIndent(input.Comparison, "", "  ")
	if err != nil {
		comparisonJSON = []byte(input.Comparison.Summary)
	}
	return systemPromptFor(cfg, OpGauge),
		fmt.Sprintf(userPromptFor(cfg, OpGauge),
			input.CurrentLevel, string(comparisonJSON), input.StandardsContext)
}

// buildStandardsPrompt formats the prompts for grade matrix structuring
func buildStandardsPrompt(cfg *config.OperationAIConfig, matrixText string) (string, string) {
	return systemPromptFor(cfg, OpStandards),
		fmt.Sprintf(userPromptFor(cfg, OpStandards), matrixText)
}

// buildClassifyPrompt formats the prompts for position classification
func buildClassifyPrompt(cfg *config.OperationAIConfig, input ClassifyInput) (string, string) {
	var extra strings.Builder
	if input.PreviousLevel != "" {
		fmt.Fprintf(&extra, "\nThe position was previously classified at %s.\n", input.PreviousLevel)
	}
	if input.ChangeContext != "" {
		fmt.Fprintf(&extra, "\nRecent Changes to the Position:\n-----\n%s\n-----\n", input.ChangeContext)
	}
	return systemPromptFor(cfg, OpClassify),
		fmt.Sprintf(userPromptFor(cfg, OpClassify),
			input.DocumentText, input.StandardsContext, extra.String())
}
