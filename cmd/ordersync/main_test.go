package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oip/ordersync/internal/domains/common/order"
	"oip/ordersync/pkg/errorutil"
)

func TestParseOrderTypes(t *testing.T) {
	set, err := parseOrderTypes([]string{"case-registration", "3"})
	require.NoError(t, err)
	assert.True(t, set.Enabled(order.TypeCaseRegistration))
	assert.True(t, set.Enabled(order.TypeMonitorPaymentCancel))
	assert.False(t, set.Enabled(order.TypeMonitorPayment))
}

func TestParseOrderTypesEmptyEnablesAll(t *testing.T) {
	set, err := parseOrderTypes(nil)
	require.NoError(t, err)
	for _, ot := range order.All() {
		assert.True(t, set.Enabled(ot))
	}
}

func TestParseOrderTypesUnknown(t *testing.T) {
	_, err := parseOrderTypes([]string{"refund"})
	require.Error(t, err)
	assert.True(t, errorutil.Is(err, errorutil.KindInvalidCommand))
}

func TestOrderTypesCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"order-types"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(order.All())+1)
	assert.Contains(t, lines[1], "case-registration")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), "true"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[2]), "false"))
}

func TestRunRejectsUnknownOrderType(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", "--order-type", "refund", "--config", "/nonexistent.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errorutil.Is(err, errorutil.KindInvalidCommand))
}

func TestAssembleRequiresAccount(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"assemble", "--incident", "77"})
	assert.Error(t, cmd.Execute())
}
