package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

func TestParseModelJSONToleratesProse(t *testing.T) {
	reply := `Sure! Here is the extraction you asked for:

{"deeds":[{"grantor":"John Smith","grantee":"ABC Holdings LLC","consideration":"$250,000","noteDate":"","fileNumber":"","recordingDate":"01/15/2024","bookPage":"Book 123 Page 456"}],"deedsOfTrust":[],"judgments":[],"liens":[],"namesSearched":["John Smith","ABC Holdings LLC"],"propertyInfo":{"address":"","parcelNumber":"","legalDescription":""},"confidence":"high"}

Let me know if you need anything else.`

	doc, err := ParseModelJSON(reply)
	require.NoError(t, err)
	require.Len(t, doc.Deeds, 1)
	assert.Equal(t, "John Smith", doc.Deeds[0].Grantor)
	assert.Equal(t, "ABC Holdings LLC", doc.Deeds[0].Grantee)
	assert.Equal(t, ConfidenceHigh, doc.Confidence)
}

func TestParseModelJSONNoJSON(t *testing.T) {
	_, err := ParseModelJSON("I could not find any property records in this text.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAIParseFailure))
}

func TestParseModelJSONInvalidJSON(t *testing.T) {
	_, err := ParseModelJSON(`{"deeds": [}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAIParseFailure))
}

func TestApplyDefaultsFixedSchema(t *testing.T) {
	doc := &ExtractedDocument{
		DeedsOfTrust: []DeedOfTrust{{Grantor: "A"}},
		Liens:        []Lien{{Creditor: "IRS"}, {Creditor: "County", Status: "Released"}},
		NamesSearched: []string{
			"John Smith", " john smith ", "", "ABC Holdings LLC",
		},
	}
	ApplyDefaults(doc)

	assert.NotNil(t, doc.Deeds)
	assert.NotNil(t, doc.Judgments)
	assert.Equal(t, "Open", doc.DeedsOfTrust[0].Status)
	assert.Equal(t, "Open", doc.Liens[0].Status)
	assert.Equal(t, "Released", doc.Liens[1].Status)
	assert.Equal(t, []string{"John Smith", "ABC Holdings LLC"}, doc.NamesSearched)
	assert.Equal(t, ConfidenceLow, doc.Confidence, "missing confidence defaults to low")
}

func TestDefaultedDocumentValidatesAgainstSchema(t *testing.T) {
	doc, err := ParseModelJSON(`{"deeds":[{"grantor":"A"}],"confidence":"medium"}`)
	require.NoError(t, err)

	// every declared field present (possibly empty) after defaulting
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(BuildTitleDocumentJSONSchema(), b))
}
