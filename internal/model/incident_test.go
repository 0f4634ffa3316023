package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySingletonsMarshalAsObjects(t *testing.T) {
	raw, err := json.Marshal(&IncidentDocument{DocVersion: IncidentDocVersion, AccountNum: "0011"})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, map[string]interface{}{}, got["Customer_Details"])
	assert.Equal(t, map[string]interface{}{}, got["Account_Details"])
	assert.Equal(t, "0011", got["Account_Num"])
	assert.Equal(t, float64(1), got["Doc_Version"])
}

func TestFilledSingletonsMarshalFields(t *testing.T) {
	doc := IncidentDocument{
		CustomerDetails: &CustomerDetails{Nic: "901234567V"},
		AccountDetails:  &AccountDetails{EmailAddress: "billing@example.com"},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var got struct {
		Customer map[string]interface{} `json:"Customer_Details"`
		Account  map[string]interface{} `json:"Account_Details"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "901234567V", got.Customer["Nic"])
	assert.Equal(t, "billing@example.com", got.Account["Email_Address"])
}
