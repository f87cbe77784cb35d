package service

import (
	"context"
	"fmt"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"strings"
)

type IqGradeService struct {
	GradeRepo   IqGradeStore
	SubjectRepo SubjectStore
}

func NewIqGradeService(gradeRepo IqGradeStore, subjectRepo SubjectStore) *IqGradeService {
	return &IqGradeService{GradeRepo: gradeRepo, SubjectRepo: subjectRepo}
}

type IqGradeReq struct {
	SubjectID          *string `json:"subjectId"`
	MinScorePercentage *int    `json:"minScorePercentage"`
	MaxScorePercentage *int    `json:"maxScorePercentage"`
	MinIQ              *int    `json:"minIQ"`
	MaxIQ              *int    `json:"maxIQ"`
	Label              *string `json:"label"`
}

func (s *IqGradeService) ListAll(ctx context.Context) ([]model.IqGrade, error) {
	return s.GradeRepo.ListAll(ctx)
}

// ListEffective 返回某科目实际生效的等级：有科目等级时只用科目等级，否则用全局等级
func (s *IqGradeService) ListEffective(ctx context.Context, subjectID string) ([]model.IqGrade, error) {
	if subjectID != "" {
		grades, err := s.GradeRepo.ListBySubject(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		if len(grades) > 0 {
			return grades, nil
		}
	}
	return s.GradeRepo.ListGlobal(ctx)
}

func (s *IqGradeService) Create(ctx context.Context, req IqGradeReq) (*model.IqGrade, error) {
	if req.MinScorePercentage == nil || req.MaxScorePercentage == nil || req.MinIQ == nil || req.MaxIQ == nil || req.Label == nil {
		return nil, fmt.Errorf("%w: minScorePercentage, maxScorePercentage, minIQ, maxIQ and label are required", util.ErrInvalidIqGrade)
	}
	grade := &model.IqGrade{}
	if err := s.apply(ctx, grade, req); err != nil {
		return nil, err
	}
	if err := s.GradeRepo.Create(ctx, grade); err != nil {
		return nil, err
	}
	return grade, nil
}

func (s *IqGradeService) Update(ctx context.Context, id string, req IqGradeReq) (*model.IqGrade, error) {
	grade, err := s.GradeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, grade, req); err != nil {
		return nil, err
	}
	if err := s.GradeRepo.Update(ctx, grade); err != nil {
		return nil, err
	}
	return grade, nil
}

func (s *IqGradeService) Delete(ctx context.Context, id string) error {
	if _, err := s.GradeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.GradeRepo.Delete(ctx, id)
}

func (s *IqGradeService) apply(ctx context.Context, g *model.IqGrade, req IqGradeReq) error {
	if req.SubjectID != nil {
		if *req.SubjectID == "" {
			g.SubjectID = nil
		} else {
			if _, err := s.SubjectRepo.FindByID(ctx, *req.SubjectID); err != nil {
				return err
			}
			id := *req.SubjectID
			g.SubjectID = &id
		}
		g.Subject = nil
	}
	if req.MinScorePercentage != nil {
		g.MinScorePercentage = *req.MinScorePercentage
	}
	if req.MaxScorePercentage != nil {
		g.MaxScorePercentage = *req.MaxScorePercentage
	}
	if req.MinIQ != nil {
		g.MinIQ = *req.MinIQ
	}
	if req.MaxIQ != nil {
		g.MaxIQ = *req.MaxIQ
	}
	if req.Label != nil {
		g.Label = strings.TrimSpace(*req.Label)
	}
	return ValidateIqGrade(g)
}

// ValidateIqGrade 0 <= min < max <= 100，minIQ < maxIQ，label 非空
func ValidateIqGrade(g *model.IqGrade) error {
	if g.MinScorePercentage < 0 || g.MaxScorePercentage > 100 {
		return fmt.Errorf("%w: score percentages must be within 0-100", util.ErrInvalidIqGrade)
	}
	if g.MinScorePercentage >= g.MaxScorePercentage {
		return fmt.Errorf("%w: minScorePercentage must be less than maxScorePercentage", util.ErrInvalidIqGrade)
	}
	if g.MinIQ >= g.MaxIQ {
		return fmt.Errorf("%w: minIQ must be less than maxIQ", util.ErrInvalidIqGrade)
	}
	if g.Label == "" {
		return fmt.Errorf("%w: label is required", util.ErrInvalidIqGrade)
	}
	return nil
}
