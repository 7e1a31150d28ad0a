package pipeline

import "jobkit/internal/types"

// Boilerplate text appended to every generated job description
const (
	BoilerplateMayPerformOtherDuties = "May perform other related duties as assigned."

	BoilerplateAssignmentNote = "This description reflects the general nature and level of work " +
		"performed. Assignment-specific duties may be documented separately."
)

// workingConditionTiers holds the baseline working-conditions guidance per
// assessed role level. The model starts from the tier text and adjusts only
// where the questionnaire gives concrete evidence.
var workingConditionTiers = map[types.RoleLevel]string{
	types.RoleLevelEntry: `Physical effort: light; routine keyboard and screen work with occasional lifting of office materials.
Physical environment: standard office environment with minimal exposure to disagreeable conditions.
Sensory attention: moderate periods of concentration when processing detailed information.
Psychological pressures: routine deadlines with predictable workload.`,

	types.RoleLevelMid: `Physical effort: light; sustained keyboard and screen work.
Physical environment: standard office environment; occasional travel to other work sites may be required.
Sensory attention: sustained concentration when analyzing detailed information and preparing documents.
Psychological pressures: moderate pressure from concurrent deadlines and shifting priorities.`,

	types.RoleLevelSenior: `Physical effort: light; extended periods of desk work.
Physical environment: standard office environment with meetings across multiple sites.
Sensory attention: prolonged concentration on complex analysis with frequent interruptions.
Psychological pressures: significant pressure from competing priorities, sensitive matters and firm deadlines.`,

	types.RoleLevelExecutive: `Physical effort: light; extended periods of desk and meeting work.
Physical environment: office environment with regular travel and public-facing engagements.
Sensory attention: continuous attention across simultaneous high-stakes matters with constant interruption.
Psychological pressures: high pressure from organizational accountability, public scrutiny and non-negotiable deadlines.`,
}

// tierGuidanceFor returns the baseline working-conditions text for an
// assessed level, defaulting to the mid tier when the level is unknown.
func tierGuidanceFor(level types.RoleLevel) string {
	if guidance, ok := workingConditionTiers[level]; ok {
		return guidance
	}
	return workingConditionTiers[types.RoleLevelMid]
}
