package main

import (
	"bytes"
	"context"
	"testing"

	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/service"
	"lms/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	db := testutil.NewDB(t)
	var out bytes.Buffer
	users := service.NewUserService(repository.NewUserRepo(db), zerolog.Nop())
	return newCommandLine(db, users, &out), &out
}

func runAll(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readPasswordFunc = func(fd int) ([]byte, error) { return []byte(tt.pwd), nil }
			err := cli.run(context.Background(), append([]string{"admin"}, tt.args...))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, out := setup(t)

	runAll(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "a@example.com", "-name", "A"}, wantErr: errHelp},
		{name: "bad role", args: []string{"adduser", "-email", "a@example.com", "-name", "A", "-role", "ROOT"}, pwd: "pw", wantErr: service.ErrInvalidRole},
		{name: "created", args: []string{"adduser", "-email", "a@example.com", "-name", "A", "-agent", "ag1"}, pwd: "pw"},
		{name: "duplicate", args: []string{"adduser", "-email", "a@example.com", "-name", "A"}, pwd: "pw", wantErr: service.ErrEmailTaken},
	})

	u, err := cli.userRepo.GetUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, model.RoleAdmin, u.Role)
	require.NotNil(t, u.AgentID)
	assert.Equal(t, "ag1", *u.AgentID)
	assert.NoError(t, u.CheckPassword("pw"))
	assert.Contains(t, out.String(), "user a@example.com created")
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)
	usr := testutil.CreateUser(t, cli.db, "t@example.com", "old", model.RoleTeacher)

	runAll(t, cli, []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "t@example.com"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@example.com"}, pwd: "x", wantErr: service.ErrUserNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, pwd: "new"},
	})

	u, err := cli.userRepo.GetUserByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, u.CheckPassword("new"))
}

func Test_commandLine_addCategoryAndMigrate(t *testing.T) {
	cli, out := setup(t)

	runAll(t, cli, []cliTest{
		{name: "migrate", args: []string{"migrate"}},
		{name: "no name", args: []string{"addcategory"}, wantErr: errHelp},
		{name: "created", args: []string{"addcategory", "-name", "Programming"}},
	})

	cats, err := cli.categories.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Programming", cats[0].Name)
	assert.Contains(t, out.String(), "schema migrated")
}
