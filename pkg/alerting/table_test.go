package alerting

import (
	"testing"
	"time"
)

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{
			name: "valid descending",
			table: Table{
				{Ceiling: 50, RepeatInterval: 5 * time.Minute},
				{Ceiling: 40, RepeatInterval: 3 * time.Minute},
				{Ceiling: 30, RepeatInterval: 2 * time.Minute},
			},
		},
		{
			name:  "empty table",
			table: Table{},
		},
		{
			name: "unsorted",
			table: Table{
				{Ceiling: 40, RepeatInterval: time.Minute},
				{Ceiling: 50, RepeatInterval: time.Minute},
			},
			wantErr: true,
		},
		{
			name: "duplicate ceiling",
			table: Table{
				{Ceiling: 40, RepeatInterval: time.Minute},
				{Ceiling: 40, RepeatInterval: time.Minute},
			},
			wantErr: true,
		},
		{
			name: "zero interval",
			table: Table{
				{Ceiling: 40, RepeatInterval: 0},
			},
			wantErr: true,
		},
		{
			name: "ceiling out of range",
			table: Table{
				{Ceiling: 120, RepeatInterval: time.Minute},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "bands only",
			opts: Options{Bands: Table{{Ceiling: 50, RepeatInterval: time.Minute}}},
		},
		{
			name: "milestones only",
			opts: Options{Milestones: []int{50, 30, 10}},
		},
		{
			name:    "nothing configured",
			opts:    Options{},
			wantErr: true,
		},
		{
			name:    "ascending discharge milestones",
			opts:    Options{Milestones: []int{10, 30, 50}},
			wantErr: true,
		},
		{
			name:    "descending charging milestones",
			opts:    Options{ChargingMilestones: []int{90, 50}},
			wantErr: true,
		},
		{
			name: "valid charging milestones",
			opts: Options{ChargingMilestones: []int{25, 50, 75, 90, 100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
