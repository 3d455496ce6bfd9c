package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed nodes.sql
var nodesSQL string

//go:embed keywords.sql
var keywordsSQL string

// Function lists for verification
var NodesFunctions = []string{
	"init_nodes",
	"upsert_node",
	"select_node",
	"delete_node",
	"select_nodes_by_similarity",
}

var KeywordsFunctions = []string{
	"init_keywords",
	"link_keywords",
	"select_keywords_by_node",
	"select_nodes_by_keywords",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadNodesSql loads node-related SQL functions
func LoadNodesSql(db *sql.DB, force bool) error {
	return loadSql(db, "nodes", nodesSQL, NodesFunctions, force)
}

// LoadKeywordsSql loads keyword-related SQL functions
func LoadKeywordsSql(db *sql.DB, force bool) error {
	return loadSql(db, "keywords", keywordsSQL, KeywordsFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadNodesSql(db, force); err != nil {
		return err
	}

	if err := LoadKeywordsSql(db, force); err != nil {
		return err
	}

	return nil
}

func loadSql(db *sql.DB, name string, script string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
