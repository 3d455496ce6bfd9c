package main

import (
	"fmt"
	"os"

	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by the seed command.
//
//	nodes:
//	  - id: thread-1
//	    title: Uploads fail with 503
//	    kind: teams_thread
//	    webUrl: https://teams.example/thread-1
//	    content: ...
//	    keywords: [storage, "503"]
type seedFile struct {
	Nodes []*model.Node `yaml:"nodes"`
}

func readSeedFile(path string) ([]*model.Node, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("read seed file", err)
	}

	seed := &seedFile{}
	if err := yaml.Unmarshal(b, seed); err != nil {
		return nil, helper.NewError("parse seed file", err)
	}

	seen := make(map[string]bool, len(seed.Nodes))
	for i, node := range seed.Nodes {
		if node == nil || node.ID == "" {
			return nil, helper.NewError("parse seed file", fmt.Errorf("node %d has no id", i))
		}
		if seen[node.ID] {
			return nil, helper.NewError("parse seed file", fmt.Errorf("duplicate node id %s", node.ID))
		}
		seen[node.ID] = true
	}

	return seed.Nodes, nil
}
