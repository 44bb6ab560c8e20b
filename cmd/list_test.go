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

func TestListCmd_PassesPathsAndExcludes(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Estimate", mock.Anything, mock.MatchedBy(func(args domain.EstimateArgs) bool {
		return len(args.Paths) == 1 && args.Paths[0] == m.Path("./examples/...") &&
			len(args.Exclude) == 1 && args.Exclude[0] == "_gen\\.go$"
	})).Return(nil)

	cmd.SetArgs([]string{"list", "-x", "_gen\\.go$", "./examples/..."})
	err := cmd.Execute()
	require.NoError(t, err)
}
