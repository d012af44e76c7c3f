package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/jakechorley/placement-allocator/pkg/core/allocator"
	"github.com/jakechorley/placement-allocator/pkg/core/ats"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/core/screening"
	"github.com/jakechorley/placement-allocator/pkg/core/skills"
)

type resumeRequest struct {
	Text string `json:"text" validate:"max=200000"`
}

type scoreRequest struct {
	Text           string `json:"text" validate:"max=200000"`
	Domain         string `json:"domain" validate:"max=100"`
	RequiredSkills string `json:"requiredSkills" validate:"max=2000"`

	// SelfCheck scores against the domain's own catalog skills instead of RequiredSkills
	SelfCheck bool `json:"selfCheck"`
}

type candidateRequest struct {
	ID              string  `json:"id" validate:"required"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	DeclaredSkills  string  `json:"declaredSkills"`
	GPA             float64 `json:"gpa"`
	Domain          string  `json:"domain"`
	ExperienceYears int     `json:"experienceYears"`
	ExtractedSkills string  `json:"extractedSkills"`
}

type positionRequest struct {
	ID             string  `json:"id" validate:"required"`
	OrganizationID string  `json:"organizationId"`
	Domain         string  `json:"domain" validate:"max=100"`
	RequiredSkills string  `json:"requiredSkills" validate:"max=2000"`
	MinGPA         float64 `json:"minGPA"`
	Capacity       int     `json:"capacity"`
	Stipend        int     `json:"stipend"`
}

type allocationRunRequest struct {
	Candidates []candidateRequest `json:"candidates" validate:"unique=ID,dive"`
	Positions  []positionRequest  `json:"positions" validate:"dive"`

	// Resumes maps candidate ID to resume text
	Resumes map[string]string `json:"resumes" validate:"dive,max=200000"`
}

type validateResponse struct {
	Valid         bool   `json:"valid"`
	Check         string `json:"check,omitempty"`
	Reason        string `json:"reason"`
	SectionsFound int    `json:"sectionsFound"`
}

type skillsResponse struct {
	Skills []string `json:"skills"`
	Count  int      `json:"count"`
}

type issueResponse struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

type scoreResponse struct {
	Score             int             `json:"score"`
	ResumeQuality     int             `json:"resumeQuality"`
	KeywordMatch      int             `json:"keywordMatch"`
	SkillMatch        int             `json:"skillMatch"`
	ExperienceSignals int             `json:"experienceSignals"`
	Breakdown         []string        `json:"breakdown"`
	Issues            []issueResponse `json:"issues"`
}

type assignmentResponse struct {
	CandidateID    string  `json:"candidateId"`
	OrganizationID string  `json:"organizationId"`
	PositionID     string  `json:"positionId"`
	Score          float64 `json:"score"`
	Rank           int     `json:"rank"`
}

type exclusionResponse struct {
	CandidateID string `json:"candidateId"`
	Kind        string `json:"kind"`
	Reason      string `json:"reason"`
	Check       string `json:"check,omitempty"`
}

type positionSummaryResponse struct {
	PositionID     string `json:"positionId"`
	OrganizationID string `json:"organizationId"`
	Domain         string `json:"domain"`
	Capacity       int    `json:"capacity"`
	Filled         int    `json:"filled"`
	Candidates     int    `json:"candidates"`
	Status         string `json:"status"`
}

type allocationRunResponse struct {
	Allocated                int                       `json:"allocated"`
	Assignments              []assignmentResponse      `json:"assignments"`
	Exclusions               []exclusionResponse       `json:"exclusions"`
	IneligiblePairs          int                       `json:"ineligiblePairs"`
	PositionIssues           []positionIssueResponse   `json:"positionIssues"`
	Positions                []positionSummaryResponse `json:"positions"`
	OrganizationDistribution map[string]int            `json:"organizationDistribution"`
	Rounds                   int                       `json:"rounds"`
	EligibleCandidates       int                       `json:"eligibleCandidates"`
	UnallocatedCandidates    []string                  `json:"unallocatedCandidates"`
	ValidationErrors         []string                  `json:"validationErrors"`
}

type positionIssueResponse struct {
	PositionID string `json:"positionId"`
	Kind       string `json:"kind"`
	Reason     string `json:"reason"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bind decodes the JSON body into req and validates it
func (s *Server) bind(c fiber.Ctx, req interface{}) error {
	if err := c.Bind().JSON(req); err != nil {
		return NewAppError(fiber.StatusBadRequest, "invalid JSON body", nil, err)
	}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]fieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fieldError{Field: fe.Namespace(), Rule: fe.Tag()})
			}
			return NewAppError(fiber.StatusBadRequest, "request validation failed", fields, err)
		}
		return NewAppError(fiber.StatusBadRequest, "request validation failed", nil, err)
	}
	return nil
}

func (s *Server) health(c fiber.Ctx) error {
	return Success(c, fiber.StatusOK, MessageOK, fiber.Map{"status": "healthy"})
}

func (s *Server) validateResume(c fiber.Ctx) error {
	var req resumeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	verdict := screening.Validate(req.Text)
	return Success(c, fiber.StatusOK, MessageOK, validateResponse{
		Valid:         !verdict.Rejected,
		Check:         string(verdict.Check),
		Reason:        verdict.Reason,
		SectionsFound: screening.SectionsFound(req.Text),
	})
}

func (s *Server) extractSkills(c fiber.Ctx) error {
	var req resumeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	found := skills.Extract(req.Text)
	return Success(c, fiber.StatusOK, MessageOK, skillsResponse{Skills: found, Count: len(found)})
}

func (s *Server) scoreResume(c fiber.Ctx) error {
	var req scoreRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	var (
		score     int
		breakdown ats.Breakdown
	)
	if req.SelfCheck {
		score, breakdown = ats.AnalyzeResumeQuality(req.Text, req.Domain)
	} else {
		score, breakdown = ats.Score(req.Text, ats.Job{Domain: req.Domain, RequiredSkills: req.RequiredSkills})
	}

	return Success(c, fiber.StatusOK, MessageOK, scoreResponse{
		Score:             score,
		ResumeQuality:     breakdown.ResumeQuality,
		KeywordMatch:      breakdown.KeywordMatch,
		SkillMatch:        breakdown.SkillMatch,
		ExperienceSignals: breakdown.ExperienceSignals,
		Breakdown:         breakdown.Lines(),
		Issues:            toIssueResponses(breakdown.Issues),
	})
}

func (s *Server) runAllocation(c fiber.Ctx) error {
	var req allocationRunRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	candidates := make([]model.Candidate, 0, len(req.Candidates))
	for _, rc := range req.Candidates {
		candidates = append(candidates, model.Candidate{
			ID:              rc.ID,
			Name:            rc.Name,
			Email:           rc.Email,
			DeclaredSkills:  rc.DeclaredSkills,
			GPA:             rc.GPA,
			Domain:          rc.Domain,
			ExperienceYears: rc.ExperienceYears,
			ExtractedSkills: rc.ExtractedSkills,
		})
	}
	positions := make([]model.Position, 0, len(req.Positions))
	for _, rp := range req.Positions {
		positions = append(positions, model.Position{
			ID:             rp.ID,
			OrganizationID: rp.OrganizationID,
			Domain:         rp.Domain,
			RequiredSkills: rp.RequiredSkills,
			MinGPA:         rp.MinGPA,
			Capacity:       rp.Capacity,
			Stipend:        rp.Stipend,
		})
	}

	outcome, err := allocator.Allocate(allocator.AllocationConfig{
		Candidates:  candidates,
		Positions:   positions,
		ResumeTexts: req.Resumes,
		Scorer:      s.scorer,
		Observer:    s.observer,
	})
	if err != nil {
		return NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
	}

	return Success(c, fiber.StatusOK, MessageOK, toAllocationRunResponse(outcome))
}

func toIssueResponses(issues []model.Issue) []issueResponse {
	res := make([]issueResponse, 0, len(issues))
	for _, i := range issues {
		res = append(res, issueResponse{Kind: string(i.Kind), Reason: i.Reason})
	}
	return res
}

func toAllocationRunResponse(outcome *allocator.AllocationOutcome) allocationRunResponse {
	res := allocationRunResponse{
		Allocated:                outcome.AllocatedCount(),
		Assignments:              make([]assignmentResponse, 0, len(outcome.Assignments)),
		Exclusions:               make([]exclusionResponse, 0, len(outcome.Exclusions)),
		IneligiblePairs:          len(outcome.IneligiblePairs),
		PositionIssues:           make([]positionIssueResponse, 0, len(outcome.PositionIssues)),
		Positions:                make([]positionSummaryResponse, 0, len(outcome.Positions)),
		OrganizationDistribution: outcome.OrganizationDistribution,
		Rounds:                   outcome.Rounds,
		EligibleCandidates:       outcome.EligibleCandidates,
		UnallocatedCandidates:    outcome.UnallocatedCandidates,
		ValidationErrors:         make([]string, 0, len(outcome.ValidationErrors)),
	}
	if res.UnallocatedCandidates == nil {
		res.UnallocatedCandidates = []string{}
	}

	for _, a := range outcome.Assignments {
		res.Assignments = append(res.Assignments, assignmentResponse{
			CandidateID:    a.CandidateID,
			OrganizationID: a.OrganizationID,
			PositionID:     a.PositionID,
			Score:          a.Score,
			Rank:           a.Rank,
		})
	}
	for _, e := range outcome.Exclusions {
		res.Exclusions = append(res.Exclusions, exclusionResponse{
			CandidateID: e.CandidateID,
			Kind:        string(e.Issue.Kind),
			Reason:      e.Issue.Reason,
			Check:       string(e.Check),
		})
	}
	for _, pi := range outcome.PositionIssues {
		res.PositionIssues = append(res.PositionIssues, positionIssueResponse{
			PositionID: pi.PositionID,
			Kind:       string(pi.Issue.Kind),
			Reason:     pi.Issue.Reason,
		})
	}
	for _, p := range outcome.Positions {
		res.Positions = append(res.Positions, positionSummaryResponse{
			PositionID:     p.PositionID,
			OrganizationID: p.OrganizationID,
			Domain:         p.Domain,
			Capacity:       p.Capacity,
			Filled:         p.Filled,
			Candidates:     p.Candidates,
			Status:         string(p.Status),
		})
	}
	for _, v := range outcome.ValidationErrors {
		res.ValidationErrors = append(res.ValidationErrors, v.Error())
	}
	return res
}
