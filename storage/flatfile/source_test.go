package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/records"
)

const (
	teachersCSV = `Teacher_ID,Teacher_Name,Subject,Total_Experience_Years,Teaching_Score_Internal,Compliance_Score,Attrition_Risk_Score,Late_Count_Current_Month,Status,Avatar_URL
T001,Asha Rao,Maths,12,8.5,9,1.2,0,Active,https://example.com/a.png
T002,"Okafor, Ben",Physics,3,6.1,7.5,3.8,4,At Risk,
`
	studentsCSV = `Student_ID,Student_Name,Grade
S001,Dara,A
`
	performanceCSV = `Teacher_ID,Date,Score,Attendance,Late_Count
T001,2024-03-01,88,Present,0
T002,2024-03-01,61,Absent,2
`
	credentialsCSV = `username,password,teacher_id
T001,9593,T001
`
)

func writeFiles(t *testing.T, files map[string]string) core.DataConfig {
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return core.DataConfig{
		Source:          "csv",
		Dir:             dir,
		TeachersFile:    "teachers.csv",
		StudentsFile:    "students.csv",
		PerformanceFile: "performance.csv",
		CredentialsFile: "credentials.csv",
	}
}

func allFiles() map[string]string {
	return map[string]string{
		"teachers.csv":    teachersCSV,
		"students.csv":    studentsCSV,
		"performance.csv": performanceCSV,
		"credentials.csv": credentialsCSV,
	}
}

func TestSource_Load(t *testing.T) {
	src := NewSource(writeFiles(t, allFiles()))
	tables, err := src.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, tables.Teachers, 2)
	assert.Equal(t, "Okafor, Ben", tables.Teachers[1].Name)
	assert.Equal(t, records.StatusAtRisk, tables.Teachers[1].Status)
	assert.Equal(t, "https://example.com/a.png", tables.Teachers[0].AvatarURL.String)
	assert.False(t, tables.Teachers[1].AvatarURL.Valid)
	assert.Len(t, tables.Students, 1)
	assert.False(t, tables.StudentSchema.TeacherID)
	assert.Len(t, tables.Performance, 2)
	assert.Len(t, tables.Credentials, 1)
}

func TestSource_Load_optionalCredentials(t *testing.T) {
	files := allFiles()
	delete(files, "credentials.csv")
	tables, err := NewSource(writeFiles(t, files)).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tables.Credentials)
}

func TestSource_Load_missingFile(t *testing.T) {
	for _, name := range []string{"teachers.csv", "students.csv", "performance.csv"} {
		t.Run(name, func(t *testing.T) {
			files := allFiles()
			delete(files, name)
			conf := writeFiles(t, files)

			_, err := NewSource(conf).Load(context.Background())
			require.Error(t, err)
			var fileErr *MissingFileError
			require.True(t, errors.As(err, &fileErr))
			assert.Equal(t, filepath.Join(conf.Dir, name), fileErr.Path)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestSource_Load_missingColumn(t *testing.T) {
	files := allFiles()
	files["performance.csv"] = "Teacher_ID,Date,Score,Attendance\nT001,2024-03-01,88,Present\n"
	_, err := NewSource(writeFiles(t, files)).Load(context.Background())

	var colErr *records.MissingColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, records.ColLateCount, colErr.Column)
}

func TestSource_Load_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSource(writeFiles(t, allFiles())).Load(ctx)
	assert.Equal(t, context.Canceled, err)
}
