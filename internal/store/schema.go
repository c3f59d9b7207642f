package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names used by the query builders.
const (
	banksTableName     = "banks"
	sectionsTableName  = "sections"
	questionsTableName = "questions"
)

var (
	banksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "version", Type: field.TypeString},
		{Name: "source", Type: field.TypeString, Default: ""},
		{Name: "imported_at", Type: field.TypeTime},
	}
	banksTable = &schema.Table{
		Name:       banksTableName,
		Columns:    banksColumns,
		PrimaryKey: []*schema.Column{banksColumns[0]},
	}

	sectionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "bank_id", Type: field.TypeUUID},
		{Name: "position", Type: field.TypeInt},
		{Name: "title", Type: field.TypeString},
	}
	sectionsTable = &schema.Table{
		Name:       sectionsTableName,
		Columns:    sectionsColumns,
		PrimaryKey: []*schema.Column{sectionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "sections_banks_sections",
				Columns:    []*schema.Column{sectionsColumns[1]},
				RefColumns: []*schema.Column{banksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "section_bank_id_position",
				Unique:  true,
				Columns: []*schema.Column{sectionsColumns[1], sectionsColumns[2]},
			},
		},
	}

	questionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "section_id", Type: field.TypeUUID},
		{Name: "position", Type: field.TypeInt},
		{Name: "text", Type: field.TypeString},
		{Name: "choices", Type: field.TypeJSON, Nullable: true},
		{Name: "answer", Type: field.TypeString},
	}
	questionsTable = &schema.Table{
		Name:       questionsTableName,
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "questions_sections_questions",
				Columns:    []*schema.Column{questionsColumns[1]},
				RefColumns: []*schema.Column{sectionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "question_section_id_position",
				Unique:  true,
				Columns: []*schema.Column{questionsColumns[1], questionsColumns[2]},
			},
		},
	}

	// tables lists every table in creation order.
	tables = []*schema.Table{banksTable, sectionsTable, questionsTable}
)

func init() {
	sectionsTable.ForeignKeys[0].RefTable = banksTable
	questionsTable.ForeignKeys[0].RefTable = sectionsTable
}
