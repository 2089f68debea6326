package models

import (
	"encoding/json"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestVehicleModelFieldCoexistsWithEmbeddedModel(t *testing.T) {
	// The model-name column and the embedded gorm.Model must stay distinct
	// fields; the JSON shape keeps "model" for the vehicle model name.
	v := Vehicle{
		PlateNumber:  "KA01AB1234",
		Make:         "Tata",
		VehicleModel: "Prima 2528",
		Year:         2022,
		Model:        gorm.Model{CreatedAt: time.Now()},
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal vehicle: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal vehicle: %v", err)
	}
	if decoded["model"] != "Prima 2528" {
		t.Fatalf("expected model field %q, got %v", "Prima 2528", decoded["model"])
	}
	if v.CreatedAt.IsZero() {
		t.Fatalf("expected embedded timestamps to be reachable")
	}
}
