package ai

import "google.golang.org/genai"

// Structured output schemas for the Gemini provider. Each returns a fresh
// GenerateContentConfig so per-call temperature can be applied safely.

func jsonConfig(schema *genai.Schema) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
}

func stringArray() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
}

func jobInfoSchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"job_info": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"job_working_title": {Type: genai.TypeString},
					"department":        {Type: genai.TypeString},
					"division_section":  {Type: genai.TypeString},
					"reports_to":        {Type: genai.TypeString},
					"reports_to_sap_id": {Type: genai.TypeString},
					"exclusion_status":  {Type: genai.TypeString, Enum: []string{"Excluded", "Non-Excluded"}},
				},
				Required: []string{"job_working_title", "department", "reports_to", "exclusion_status"},
			},
			"overall_purpose": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"purpose_text": {Type: genai.TypeString},
				},
				Required: []string{"purpose_text"},
			},
			"role_level_assessment": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"inferred_level": {Type: genai.TypeString, Enum: []string{"entry", "mid", "senior", "executive"}},
					"reasoning":      {Type: genai.TypeString},
				},
				Required: []string{"inferred_level", "reasoning"},
			},
		},
		Required: []string{"job_info", "overall_purpose", "role_level_assessment"},
	})
}

func responsibilitiesSchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"responsibilities": stringArray(),
		},
		Required: []string{"responsibilities"},
	})
}

func peopleManagementSchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type_of_role":                      {Type: genai.TypeString, Enum: []string{"Individual Contributor", "Manages/Supervises People"}},
			"num_direct_reports":                {Type: genai.TypeString},
			"classifications_of_direct_reports": {Type: genai.TypeString},
			"num_indirect_reports":              {Type: genai.TypeString},
			"other_resources":                   {Type: genai.TypeString},
		},
		Required: []string{"type_of_role"},
	})
}

func scopeSchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"contacts_typical":  {Type: genai.TypeString},
			"innovation":        {Type: genai.TypeString},
			"decision_making":   {Type: genai.TypeString},
			"impact_of_results": {Type: genai.TypeString},
			"other":             {Type: genai.TypeString},
		},
		Required: []string{"contacts_typical", "innovation", "decision_making", "impact_of_results"},
	})
}

func requirementsSchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"requirements": stringArray(),
		},
		Required: []string{"requirements"},
	})
}

func workingConditionsSchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"physical_effort":         {Type: genai.TypeString},
			"physical_environment":    {Type: genai.TypeString},
			"sensory_attention":       {Type: genai.TypeString},
			"psychological_pressures": {Type: genai.TypeString},
		},
		Required: []string{"physical_effort", "physical_environment", "sensory_attention", "psychological_pressures"},
	})
}

func changeCategorySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"additions":     stringArray(),
			"deletions":     stringArray(),
			"modifications": stringArray(),
		},
		Required: []string{"additions", "deletions", "modifications"},
	}
}

func compareSchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {Type: genai.TypeString},
			"changes_by_section": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"Classification Job Information": changeCategorySchema(),
					"Job Information":                changeCategorySchema(),
					"Overall Purpose":                changeCategorySchema(),
					"Key Responsibilities":           changeCategorySchema(),
					"People Management":              changeCategorySchema(),
					"Scope":                          changeCategorySchema(),
					"Licenses and Certifications":    changeCategorySchema(),
					"Working Conditions":             changeCategorySchema(),
				},
			},
			"classification_relevant_changes": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"accountabilities":      stringArray(),
					"knowledge_experience":  stringArray(),
					"decision_making":       stringArray(),
					"customer_relationship": stringArray(),
					"leadership":            stringArray(),
					"project_management":    stringArray(),
				},
			},
			"overall_significance": {Type: genai.TypeString, Enum: []string{"minor", "moderate", "major"}},
		},
		Required: []string{"summary", "changes_by_section", "classification_relevant_changes", "overall_significance"},
	})
}

func gaugeSchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"should_reevaluate":      {Type: genai.TypeBoolean},
			"confidence":             {Type: genai.TypeInteger},
			"current_level":          {Type: genai.TypeString},
			"likely_new_level_range": {Type: genai.TypeString},
			"rationale":              {Type: genai.TypeString},
			"key_factors":            stringArray(),
			"categories_affected":    stringArray(),
			"risk_assessment":        {Type: genai.TypeString, Enum: []string{"low", "medium", "high"}},
		},
		Required: []string{"should_reevaluate", "confidence", "current_level",
			"likely_new_level_range", "rationale", "risk_assessment"},
	})
}

func classifySchema() *genai.GenerateContentConfig {
	return jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"position_title":    {Type: genai.TypeString},
			"recommended_level": {Type: genai.TypeString},
			"confidence":        {Type: genai.TypeInteger},
			"rationale":         {Type: genai.TypeString},
			"category_analysis": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"accountabilities":      {Type: genai.TypeString},
					"knowledge_experience":  {Type: genai.TypeString},
					"decision_making":       {Type: genai.TypeString},
					"customer_relationship": {Type: genai.TypeString},
					"leadership":            {Type: genai.TypeString},
					"project_management":    {Type: genai.TypeString},
				},
			},
			"supporting_evidence":  stringArray(),
			"alternative_levels":   stringArray(),
			"comparable_positions": stringArray(),
		},
		Required: []string{"position_title", "recommended_level", "confidence", "rationale"},
	})
}
