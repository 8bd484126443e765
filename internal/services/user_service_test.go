package services

import (
	"context"
	"testing"

	"rentalhub/internal/common"
	"rentalhub/internal/events"
	"rentalhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	service   UserService
	userRepo  *MockUserRepository
	publisher *recordingPublisher
	ctx       context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.userRepo = new(MockUserRepository)
	suite.publisher = &recordingPublisher{}
	suite.service = NewUserService(suite.userRepo, suite.publisher)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.userRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestUpdate_DeactivateAndPromote() {
	user := newUser(models.RoleTenant)
	suite.userRepo.On("GetByID", suite.ctx, user.ID).Return(user, nil)
	suite.userRepo.On("Update", suite.ctx, user).Return(nil)

	role := models.RoleAgent
	active := false
	got, err := suite.service.Update(suite.ctx, user.ID, &models.UserUpdate{Role: &role, IsActive: &active})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleAgent, got.Role)
	assert.False(suite.T(), got.IsActive)
	assert.Equal(suite.T(), []string{events.UserDeactivated}, suite.publisher.types())
}

func (suite *UserServiceTestSuite) TestUpdate_InvalidRole() {
	user := newUser(models.RoleTenant)
	suite.userRepo.On("GetByID", suite.ctx, user.ID).Return(user, nil)

	role := models.Role("owner")
	_, err := suite.service.Update(suite.ctx, user.ID, &models.UserUpdate{Role: &role})

	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
}

func (suite *UserServiceTestSuite) TestUpdate_EmailConflict() {
	user := newUser(models.RoleTenant)
	suite.userRepo.On("GetByID", suite.ctx, user.ID).Return(user, nil)
	suite.userRepo.On("Update", suite.ctx, user).Return(common.Conflict("user with this email already exists"))

	email := "Taken@Example.com"
	_, err := suite.service.Update(suite.ctx, user.ID, &models.UserUpdate{Email: &email})

	assert.True(suite.T(), common.IsKind(err, common.KindConflict))
	assert.Equal(suite.T(), "taken@example.com", user.Email)
}

func (suite *UserServiceTestSuite) TestUpdateProfile_IgnoresRoleAndActive() {
	user := newUser(models.RoleTenant)
	suite.userRepo.On("GetByID", suite.ctx, user.ID).Return(user, nil)
	suite.userRepo.On("Update", suite.ctx, user).Return(nil)

	name := "New Name"
	avatar := "https://cdn.example.com/me.png"
	role := models.RoleAdmin
	active := false
	got, err := suite.service.UpdateProfile(suite.ctx, user, &models.UserUpdate{
		Name: &name, Avatar: &avatar, Role: &role, IsActive: &active,
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Name", got.Name)
	assert.Equal(suite.T(), avatar, got.Avatar)
	assert.Equal(suite.T(), models.RoleTenant, got.Role)
	assert.True(suite.T(), got.IsActive)
}

func (suite *UserServiceTestSuite) TestUpdateProfile_BlankName() {
	user := newUser(models.RoleTenant)
	suite.userRepo.On("GetByID", suite.ctx, user.ID).Return(user, nil)

	name := " "
	_, err := suite.service.UpdateProfile(suite.ctx, user, &models.UserUpdate{Name: &name})

	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
}
