// Package costmodel loads cost-model definitions from HCL files: the
// indirect pool declarations and the cost-centre taxonomy the allocator
// maps expense lines onto.
package costmodel

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"hospital-cost/core/allocation"
	"hospital-cost/core/normalize"
	"hospital-cost/core/types"
	"hospital-cost/internal/errors"
)

type modelFile struct {
	Pools   []poolBlock   `hcl:"pool,block"`
	Centres []centreBlock `hcl:"cost_centre,block"`
}

type poolBlock struct {
	Name        string   `hcl:"name,label"`
	Category    string   `hcl:"category"`
	Driver      string   `hcl:"driver"`
	CostCentres []string `hcl:"cost_centres"`
}

type centreBlock struct {
	Code          string     `hcl:"code,label"`
	Category      string     `hcl:"category"`
	Name          string     `hcl:"name"`
	Alias         string     `hcl:"alias,optional"`
	PrimaryDriver string     `hcl:"primary_driver,optional"`
	Subs          []subBlock `hcl:"sub_cost_centre,block"`
}

type subBlock struct {
	Code          string `hcl:"code,label"`
	Name          string `hcl:"name"`
	Alias         string `hcl:"alias,optional"`
	PrimaryDriver string `hcl:"primary_driver,optional"`
}

// Load parses one cost-model HCL file
func Load(path string) (allocation.CostModel, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return allocation.CostModel{}, errors.CostModel(
			fmt.Sprintf("failed to parse cost model %s", path), diags)
	}

	var raw modelFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return allocation.CostModel{}, errors.CostModel(
			fmt.Sprintf("failed to decode cost model %s", path), diags)
	}
	return build(raw)
}

// Parse decodes a cost model from in-memory HCL source
func Parse(src []byte, filename string) (allocation.CostModel, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return allocation.CostModel{}, errors.CostModel(
			fmt.Sprintf("failed to parse cost model %s", filename), diags)
	}

	var raw modelFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return allocation.CostModel{}, errors.CostModel(
			fmt.Sprintf("failed to decode cost model %s", filename), diags)
	}
	return build(raw)
}

var poolCategories = map[string]types.PoolCategory{
	string(types.CategoryOverhead):  types.CategoryOverhead,
	string(types.CategoryUtilities): types.CategoryUtilities,
	string(types.CategoryAdmin):     types.CategoryAdmin,
}

func build(raw modelFile) (allocation.CostModel, error) {
	model := allocation.CostModel{}

	seen := make(map[string]bool)
	for _, p := range raw.Pools {
		if seen[p.Name] {
			return model, errors.CostModel(fmt.Sprintf("duplicate pool %q", p.Name), nil)
		}
		seen[p.Name] = true

		category, ok := poolCategories[p.Category]
		if !ok {
			return model, errors.CostModel(
				fmt.Sprintf("pool %q: unknown category %q", p.Name, p.Category), nil)
		}
		driver, ok := normalize.ParseDriverKind(p.Driver)
		if !ok {
			return model, errors.CostModel(
				fmt.Sprintf("pool %q: unknown driver %q", p.Name, p.Driver), nil)
		}
		if len(p.CostCentres) == 0 {
			return model, errors.CostModel(
				fmt.Sprintf("pool %q declares no cost centres", p.Name), nil)
		}
		model.Pools = append(model.Pools, allocation.PoolDefinition{
			Name:        p.Name,
			Category:    category,
			Driver:      driver,
			CostCentres: p.CostCentres,
		})
	}

	for _, c := range raw.Centres {
		parentDriver, err := centreDriver(c.Code, c.PrimaryDriver)
		if err != nil {
			return model, err
		}
		model.Centres = append(model.Centres, types.CostCentre{
			Category:      c.Category,
			Code:          c.Code,
			Name:          c.Name,
			Alias:         c.Alias,
			PrimaryDriver: parentDriver,
		})
		for _, sub := range c.Subs {
			subDriver, err := centreDriver(sub.Code, sub.PrimaryDriver)
			if err != nil {
				return model, err
			}
			if subDriver == "" {
				subDriver = parentDriver
			}
			model.Centres = append(model.Centres, types.CostCentre{
				Category:      c.Category,
				Code:          sub.Code,
				Name:          sub.Name,
				Alias:         sub.Alias,
				ParentCode:    c.Code,
				PrimaryDriver: subDriver,
			})
		}
	}
	return model, nil
}

func centreDriver(code, name string) (types.DriverKind, error) {
	if name == "" {
		return "", nil
	}
	driver, ok := normalize.ParseDriverKind(name)
	if !ok {
		return "", errors.CostModel(
			fmt.Sprintf("cost centre %q: unknown primary driver %q", code, name), nil)
	}
	return driver, nil
}
