package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "userbase/pkg/domain-errors"
	"userbase/pkg/platform/validation"
)

// CreateUserRequestSuite tests CreateUserRequest validation and normalization.
type CreateUserRequestSuite struct {
	suite.Suite
}

func TestCreateUserRequestSuite(t *testing.T) {
	suite.Run(t, new(CreateUserRequestSuite))
}

func (s *CreateUserRequestSuite) TestNormalize() {
	req := &CreateUserRequest{Email: "  Jane.Doe@Example.COM ", Name: "  Jane Doe  "}
	req.Normalize()
	s.Equal("jane.doe@example.com", req.Email)
	s.Equal("Jane Doe", req.Name)
}

func (s *CreateUserRequestSuite) TestValidation() {
	s.Run("valid request passes", func() {
		req := &CreateUserRequest{Email: "jane@example.com", Name: "Jane Doe"}
		s.NoError(req.Validate())
	})

	s.Run("absent name passes", func() {
		req := &CreateUserRequest{Email: "jane@example.com"}
		s.NoError(req.Validate())
	})

	s.Run("every failing field is reported at once", func() {
		req := &CreateUserRequest{Email: "not-an-email", Name: "A"}
		err := req.Validate()
		s.Require().Error(err)

		var de *dErrors.Error
		s.Require().True(errors.As(err, &de))

		fields := de.Fields
		s.Require().Len(fields, 2)
		s.Equal("name", fields[0].Field)
		s.Contains(fields[0].Message, "at least 3 characters")
		s.Equal("email", fields[1].Field)
		s.Contains(fields[1].Message, "valid email address")
	})

	s.Run("missing email rejected", func() {
		req := &CreateUserRequest{Name: "Jane Doe"}
		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("overlong name rejected", func() {
		req := &CreateUserRequest{
			Email: "jane@example.com",
			Name:  strings.Repeat("a", validation.MaxNameLength+1),
		}
		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "at most")
	})
}

// UpdateUserRequestSuite tests UpdateUserRequest validation and normalization.
type UpdateUserRequestSuite struct {
	suite.Suite
}

func TestUpdateUserRequestSuite(t *testing.T) {
	suite.Run(t, new(UpdateUserRequestSuite))
}

func (s *UpdateUserRequestSuite) TestValidation() {
	strPtr := func(v string) *string { return &v }

	s.Run("empty body passes", func() {
		req := &UpdateUserRequest{}
		s.NoError(req.Validate())
		s.True(req.Patch().IsEmpty())
	})

	s.Run("present fields are normalized and validated", func() {
		req := &UpdateUserRequest{Email: strPtr(" NEW@Example.com "), Name: strPtr(" New Name ")}
		req.Normalize()
		s.NoError(req.Validate())
		s.Equal("new@example.com", *req.Email)
		s.Equal("New Name", *req.Name)
	})

	s.Run("blank present name rejected", func() {
		req := &UpdateUserRequest{Name: strPtr("   ")}
		req.Normalize()
		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("malformed present email rejected", func() {
		req := &UpdateUserRequest{Email: strPtr("nope")}
		req.Normalize()
		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "valid email address")
	})
}
