package service

import (
	"context"
	"fmt"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"strings"
)

type SubjectService struct {
	SubjectRepo SubjectStore
}

func NewSubjectService(subjectRepo SubjectStore) *SubjectService {
	return &SubjectService{SubjectRepo: subjectRepo}
}

type SubjectReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPremium   *bool   `json:"isPremium"`
	ThemeColor  *string `json:"themeColor"`
}

func (s *SubjectService) List(ctx context.Context, withQuizzes bool) ([]model.Subject, error) {
	return s.SubjectRepo.List(ctx, withQuizzes)
}

func (s *SubjectService) Create(ctx context.Context, req SubjectReq) (*model.Subject, error) {
	if req.Name == nil {
		return nil, fmt.Errorf("%w: name is required", util.ErrInvalidSubmission)
	}
	subject := &model.Subject{ThemeColor: model.DefaultThemeColor}
	if err := applySubjectReq(subject, req); err != nil {
		return nil, err
	}
	if err := s.SubjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id string, req SubjectReq) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applySubjectReq(subject, req); err != nil {
		return nil, err
	}
	if err := s.SubjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// Delete 级联删除该科目下的测验及其专属 IQ 等级
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.SubjectRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.SubjectRepo.Delete(ctx, id)
}

func applySubjectReq(subject *model.Subject, req SubjectReq) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", util.ErrInvalidSubmission)
		}
		subject.Name = name
	}
	if req.Description != nil {
		subject.Description = req.Description
	}
	if req.IsPremium != nil {
		subject.IsPremium = *req.IsPremium
	}
	if req.ThemeColor != nil {
		color := strings.TrimSpace(*req.ThemeColor)
		if color == "" {
			color = model.DefaultThemeColor
		}
		subject.ThemeColor = color
	}
	return nil
}
