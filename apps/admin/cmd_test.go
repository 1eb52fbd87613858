package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/analytics"
	"github.com/trezcool/schoolinsights/core/auth"
	"github.com/trezcool/schoolinsights/core/records"
)

type fakeMailService struct {
	mu   sync.Mutex
	sent []*core.EmailMessage
}

func (svc *fakeMailService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = append(svc.sent, messages...)
}

func (svc *fakeMailService) Wait() {}

func testTables() records.Tables {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return records.Tables{
		Teachers: []records.TeacherRecord{
			{TeacherID: "T001", Name: "Asha Rao", Subject: "Maths", TeachingScore: 9, ComplianceScore: 8, AttritionRisk: 1.0, Status: records.StatusActive},
			{TeacherID: "T002", Name: "Ben Okafor", Subject: "Physics", TeachingScore: 6, ComplianceScore: 7, AttritionRisk: 4.6, LateCount: 3, Status: records.StatusAtRisk},
		},
		Students: []records.StudentRecord{
			{StudentID: "S1", Name: "a", TeacherID: null.StringFrom("T001")},
			{StudentID: "S2", Name: "b", TeacherID: null.StringFrom("T002")},
		},
		StudentSchema: records.StudentSchema{TeacherID: true},
		Performance: []records.PerformanceEvent{
			{TeacherID: "T001", Date: day, Score: 80, Attendance: records.Present},
			{TeacherID: "T002", Date: day, Score: 50, Attendance: records.Absent, LateCount: 2},
			{TeacherID: "T404", Date: day, Score: 70, Attendance: records.Present},
		},
		Credentials: []records.Credential{{Username: "T001", Password: "9593", TeacherID: "T001"}},
	}
}

func setup(t *testing.T) (*commandLine, *bytes.Buffer, *fakeMailService) {
	out := new(bytes.Buffer)
	mailSvc := new(fakeMailService)
	tables := testTables()
	return &commandLine{
		conf: &core.Config{
			Auth: core.AuthConfig{StaticUsers: map[string]string{"admin": "admin123"}, PasswordHashing: "plain"},
		},
		out:        out,
		loadTables: func(context.Context) (records.Tables, error) { return tables, nil },
		migrateDB: func(_ context.Context, command string, args ...string) error {
			switch command {
			case "up", "down", "redo", "reset", "status", "version":
			case "up-to", "down-to":
				if len(args) == 0 {
					return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
				}
			default:
				return fmt.Errorf("%q: no such command", command)
			}
			return nil
		},
		engine:  analytics.NewEngine(analytics.DefaultSettings()),
		mailSvc: mailSvc,
	}, out, mailSvc
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantErrPfx string
	extra      interface{}
}

type extra struct {
	pwd string
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(extra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
}

func checkRunErr(t *testing.T, tt cliTest, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		assert.EqualError(t, err, tt.wantErrStr)
	case tt.wantErrPfx != "":
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), tt.wantErrPfx), err.Error())
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"check", "-lol"}, wantErr: errHelp},
		{name: "hashpassword: no password", args: []string{"hashpassword"}, wantErr: errHelp},
		{name: "report: no args", args: []string{"report"}, wantErr: errHelp},
		{name: "report: no role", args: []string{"report", "-username", "admin"}, extra: extra{pwd: "admin123"}, wantErr: errHelp},
		{name: "report: no password", args: []string{"report", "-username", "admin", "-role", "Admin"}, wantErr: errHelp},
		{name: "report: bad password", args: []string{"report", "-username", "admin", "-role", "Admin"}, extra: extra{pwd: "lol"}, wantErr: auth.ErrBadPassword},
		{name: "report: unknown user", args: []string{"report", "-username", "T002", "-role", "Teacher"}, extra: extra{pwd: "lol"}, wantErr: auth.ErrUnknownUser},
		{name: "report: invalid role", args: []string{"report", "-username", "admin", "-role", "Janitor"}, extra: extra{pwd: "admin123"}, wantErr: auth.ErrInvalidRole},
		{
			name:       "report: unknown view",
			args:       []string{"report", "-username", "admin", "-role", "Admin", "-view", "lol"},
			extra:      extra{pwd: "admin123"},
			wantErrStr: `unknown view "lol", expected one of: overview, teachers, attendance, attrition, students, profile`,
		},
		{name: "report", args: []string{"report", "-username", "admin", "-role", "Admin", "-view", "attrition"}, extra: extra{pwd: "admin123"}},
		{name: "riskdigest: no recipient", args: []string{"riskdigest"}, wantErr: errHelp},
		{name: "riskdigest: bad recipient", args: []string{"riskdigest", "-to", "lol"}, wantErrPfx: "parsing recipients: "},
		{name: "check", args: []string{"check"}},
		{name: "migrate: no command", args: []string{"migrate"}, wantErr: errHelp},
		{name: "migrate: unknown command", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "migrate: up-to without version", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "migrate: up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "migrate: up", args: []string{"migrate", "up"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			cli, _, _ := setup(t)
			checkRunErr(t, tt, cli.run(args))
		})
	}
}

func Test_commandLine_hashPassword(t *testing.T) {
	cli, out, _ := setup(t)
	mockPassword(cliTest{extra: extra{pwd: "admin123"}})

	require.NoError(t, cli.run([]string{"admin", "hashpassword"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	hash := lines[len(lines)-1]
	assert.True(t, auth.BcryptMatcher{}.Match(hash, "admin123"))
	assert.False(t, auth.BcryptMatcher{}.Match(hash, "admin1234"))
}

func Test_commandLine_check(t *testing.T) {
	cli, out, _ := setup(t)

	require.NoError(t, cli.run([]string{"admin", "check"}))
	assert.Contains(t, out.String(), "teachers:        2\n")
	assert.Contains(t, out.String(), "student columns: teacher_id\n")
	assert.Contains(t, out.String(), "credentials:     1\n")
	assert.Contains(t, out.String(), "dangling events: 1\n")
	assert.Contains(t, out.String(), "subjects:        Maths, Physics\n")
	assert.NotContains(t, out.String(), "warning")
}

func Test_commandLine_report(t *testing.T) {
	cli, out, _ := setup(t)
	mockPassword(cliTest{extra: extra{pwd: "9593"}})

	require.NoError(t, cli.run([]string{"admin", "report", "-username", "T001", "-role", "teacher", "-view", "profile"}))
	body := out.String()
	body = body[strings.Index(body, "{"):] // skip the password prompt

	var profile analytics.Profile
	require.NoError(t, json.Unmarshal([]byte(body), &profile))
	require.True(t, profile.Available)
	assert.Equal(t, "T001", profile.Teacher.TeacherID)
	assert.Equal(t, 1, profile.Events)
	assert.Equal(t, 1, profile.Students)
}

func Test_commandLine_riskDigest(t *testing.T) {
	cli, out, mailSvc := setup(t)

	require.NoError(t, cli.run([]string{"admin", "riskdigest", "-to", "Head <head@school.test>, hr@school.test"}))
	assert.Equal(t, "risk digest sent to 2 recipient(s): 1 teacher(s)\n", out.String())

	require.Len(t, mailSvc.sent, 1)
	msg := mailSvc.sent[0]
	assert.Equal(t, riskDigestTemplate, msg.TemplateName)
	assert.Equal(t, "High attrition risk: 1 teacher(s)", msg.Subject)
	require.Len(t, msg.To, 2)
	assert.Equal(t, "head@school.test", msg.To[0].Address)

	data, ok := msg.TemplateData.(riskDigestData)
	require.True(t, ok)
	assert.Equal(t, 3.5, data.Threshold)
	require.Len(t, data.Teachers, 1)
	assert.Equal(t, "T002", data.Teachers[0].TeacherID)

	require.Len(t, msg.Attachments, 1)
	at := msg.Attachments[0]
	assert.Equal(t, "risk_worklist.csv", at.Filename)
	assert.Equal(t, "text/csv", at.ContentType)
	decoded, err := base64.StdEncoding.DecodeString(at.Content.String())
	require.NoError(t, err)
	assert.Equal(t,
		"teacher_id,name,subject,attrition_risk_score,compliance_score,teaching_score,late_count,status\n"+
			"T002,Ben Okafor,Physics,4.6,7,6,3,At Risk\n",
		string(decoded),
	)
}
