// Package pipeline orchestrates the multi-stage AI workflows: the six-stage
// job description generator and the compare/gauge/classify evaluator.
package pipeline

import (
	"context"
	"time"

	"jobkit/internal/ai"
	"jobkit/internal/config"
	"jobkit/internal/errors"
	"jobkit/internal/types"
)

// Generator runs the job description stages sequentially against one provider
type Generator struct {
	provider     ai.AIProvider
	providerName string
	pricing      config.ModelPricing
	usdToCADRate float64
	logger       *errors.Logger
}

// NewGenerator creates a generator bound to one provider
func NewGenerator(provider ai.AIProvider, providerName string, pricing config.PricingConfig, logger *errors.Logger) *Generator {
	return &Generator{
		provider:     provider,
		providerName: providerName,
		pricing:      pricing.ForProvider(providerName),
		usdToCADRate: pricing.USDToCADRate,
		logger:       logger,
	}
}

// Generate runs all six stages and assembles the complete job description.
// Stages run in order because each consumes the output of the ones before it.
func (g *Generator) Generate(ctx context.Context, org types.OrgContext, responses types.UserResponses) (types.JobDescription, error) {
	var usage types.UsageSummary
	started := time.Now()

	jobInfo, stageUsage, err := g.provider.GenerateJobInfo(ctx, org, responses)
	if err != nil {
		return types.JobDescription{}, err
	}
	addUsage(&usage, stageUsage)

	g.logger.Info("Job info stage complete",
		"provider", g.providerName,
		"title", jobInfo.JobInfo.JobWorkingTitle,
		"role_level", string(jobInfo.RoleLevel.InferredLevel))

	gc := ai.GenerationContext{
		Org:       org,
		Responses: responses,
		JobInfo:   jobInfo.JobInfo,
		Purpose:   jobInfo.OverallPurpose,
		RoleLevel: jobInfo.RoleLevel,
	}

	responsibilities, stageUsage, err := g.provider.GenerateResponsibilities(ctx, gc)
	if err != nil {
		return types.JobDescription{}, err
	}
	addUsage(&usage, stageUsage)
	gc.Responsibilities = responsibilities.Responsibilities

	peopleManagement, stageUsage, err := g.provider.GeneratePeopleManagement(ctx, gc)
	if err != nil {
		return types.JobDescription{}, err
	}
	addUsage(&usage, stageUsage)

	scope, stageUsage, err := g.provider.GenerateScope(ctx, gc)
	if err != nil {
		return types.JobDescription{}, err
	}
	addUsage(&usage, stageUsage)

	licenses, stageUsage, err := g.provider.GenerateLicenses(ctx, gc)
	if err != nil {
		return types.JobDescription{}, err
	}
	addUsage(&usage, stageUsage)

	gc.TierGuidance = tierGuidanceFor(jobInfo.RoleLevel.InferredLevel)
	workingConditions, stageUsage, err := g.provider.GenerateWorkingConditions(ctx, gc)
	if err != nil {
		return types.JobDescription{}, err
	}
	addUsage(&usage, stageUsage)

	g.applyCost(&usage)

	g.logger.Info("Generation pipeline complete",
		"provider", g.providerName,
		"title", jobInfo.JobInfo.JobWorkingTitle,
		"total_tokens", usage.TotalTokens,
		"cost_usd", usage.CostUSD,
		"duration", time.Since(started).String())

	return types.JobDescription{
		ClassificationInfo: defaultClassificationInfo(),
		JobInfo:            jobInfo.JobInfo,
		OverallPurpose:     jobInfo.OverallPurpose,
		KeyResponsibilities: types.KeyResponsibilities{
			Responsibilities: responsibilities.Responsibilities,
		},
		PeopleManagement:       peopleManagement,
		Scope:                  scope,
		LicensesCertifications: licenses,
		WorkingConditions:      workingConditions,
		Boilerplate: types.BoilerplateElements{
			MayPerformOtherDuties:  BoilerplateMayPerformOtherDuties,
			AssignmentSpecificNote: BoilerplateAssignmentNote,
		},
		Usage: usage,
	}, nil
}

// defaultClassificationInfo fills the administrative header for a freshly
// generated description. Classification itself happens in a separate
// workflow, so the header carries placeholders and today's date.
func defaultClassificationInfo() types.ClassificationJobInformation {
	return types.ClassificationJobInformation{
		PositionClassificationTitle: "Pending Classification",
		PayGrade:                    "",
		Standardized:                false,
		Inactive:                    false,
		DateLastEvaluated:           time.Now().Format("01/02/2006"),
	}
}

func addUsage(total *types.UsageSummary, stage *ai.TokenUsage) {
	if stage == nil {
		return
	}
	total.TotalInputTokens += stage.InputTokens
	total.TotalOutputTokens += stage.OutputTokens
	total.TotalTokens += stage.TotalTokens
}

func (g *Generator) applyCost(usage *types.UsageSummary) {
	usage.CostUSD = float64(usage.TotalInputTokens)/1e6*g.pricing.InputPerMillionUSD +
		float64(usage.TotalOutputTokens)/1e6*g.pricing.OutputPerMillionUSD
	usage.CostCAD = usage.CostUSD * g.usdToCADRate
}
