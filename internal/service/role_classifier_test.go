package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredict_DataAnalyst(t *testing.T) {
	c := NewRoleClassifier()
	got := c.Predict("Built dashboards with pandas, sql and excel reports in tableau.")
	assert.Equal(t, "Data Analyst", got)
}

func TestPredict_MLEngineer(t *testing.T) {
	c := NewRoleClassifier()
	got := c.Predict("Trained deep learning models in pytorch and tensorflow.")
	assert.Equal(t, "ML Engineer", got)
}

func TestPredict_TieGoesToEarlierRole(t *testing.T) {
	c := NewRoleClassifier()
	// one hit each for Content Writer (content) and Virtual Assistant (support)
	got := c.Predict("wrote content and handled support tickets")
	assert.Equal(t, "Content Writer (Marketing)", got)
}

func TestPredict_NoHitsIsUnknown(t *testing.T) {
	c := NewRoleClassifier()
	assert.Equal(t, "Unknown", c.Predict("professional juggler and unicyclist"))
}

func TestPredict_EmptyTextIsUnknown(t *testing.T) {
	c := NewRoleClassifier()
	assert.Equal(t, "Unknown", c.Predict("   "))
}
