package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pointcov.dev/pkg/pointcov/internal/domain"
	domainmocks "pointcov.dev/pkg/pointcov/internal/domain/mocks"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

func TestDiffCmd_PassesBothDirectories(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newDiffCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Diff", mock.Anything, mock.MatchedBy(func(args domain.DiffArgs) bool {
		return args.Old == m.Path("./before") && args.New == m.Path("./after") && args.Detail
	})).Return(nil)

	cmd.SetArgs([]string{"diff", "--detail", "./before", "./after"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestDiffCmd_RequiresTwoArgs(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newDiffCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	cmd.SetArgs([]string{"diff", "./before"})
	err := cmd.Execute()
	require.Error(t, err)
}
