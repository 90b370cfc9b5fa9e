package graphql

import (
	"github.com/graphql-go/graphql"
)

var nodeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Node",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.Int},
		"label":    &graphql.Field{Type: graphql.String},
		"isSource": &graphql.Field{Type: graphql.Boolean},
		"isTarget": &graphql.Field{Type: graphql.Boolean},
		"isFocus":  &graphql.Field{Type: graphql.Boolean},
	},
})

var linkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Link",
	Fields: graphql.Fields{
		"source":        &graphql.Field{Type: graphql.Int},
		"target":        &graphql.Field{Type: graphql.Int},
		"capacity":      &graphql.Field{Type: graphql.Int},
		"weight":        &graphql.Field{Type: graphql.Float},
		"flag":          &graphql.Field{Type: graphql.Int},
		"color":         &graphql.Field{Type: graphql.String},
		"normCapacity":  &graphql.Field{Type: graphql.Float},
		"category":      &graphql.Field{Type: graphql.String},
		"categoryColor": &graphql.Field{Type: graphql.String},
	},
})

var graphDataType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Graph",
	Fields: graphql.Fields{
		"nodes": &graphql.Field{Type: graphql.NewList(nodeType)},
		"links": &graphql.Field{Type: graphql.NewList(linkType)},
	},
})

var edgeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Edge",
	Fields: graphql.Fields{
		"from":      &graphql.Field{Type: graphql.Int},
		"to":        &graphql.Field{Type: graphql.Int},
		"fromLabel": &graphql.Field{Type: graphql.String},
		"toLabel":   &graphql.Field{Type: graphql.String},
		"capacity":  &graphql.Field{Type: graphql.Int},
		"weight":    &graphql.Field{Type: graphql.Float},
		"flag":      &graphql.Field{Type: graphql.Int},
		"category":  &graphql.Field{Type: graphql.String},
		"previous":  &graphql.Field{Type: graphql.Int},
	},
})

var nodeInfoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "NodeInfo",
	Fields: graphql.Fields{
		"node":     &graphql.Field{Type: nodeType},
		"outgoing": &graphql.Field{Type: graphql.NewList(edgeType)},
		"incoming": &graphql.Field{Type: graphql.NewList(edgeType)},
	},
})

var pathType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Path",
	Fields: graphql.Fields{
		"nodes": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"text":  &graphql.Field{Type: graphql.String},
	},
})

var focusType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Focus",
	Fields: graphql.Fields{
		"source": &graphql.Field{Type: graphql.String},
		"target": &graphql.Field{Type: graphql.String},
		"center": &graphql.Field{Type: graphql.String},
	},
})

var reductionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Reduction",
	Fields: graphql.Fields{
		"edge":   &graphql.Field{Type: graphql.String},
		"before": &graphql.Field{Type: graphql.Int},
		"after":  &graphql.Field{Type: graphql.Int},
		"amount": &graphql.Field{Type: graphql.Int},
	},
})

var impactType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Impact",
	Fields: graphql.Fields{
		"flowBefore": &graphql.Field{Type: graphql.Int},
		"flowAfter":  &graphql.Field{Type: graphql.Int},
		"dropRatio":  &graphql.Field{Type: graphql.Float},
		"severity":   &graphql.Field{Type: graphql.String},
	},
})

var attackType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Attack",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.String},
		"kind":            &graphql.Field{Type: graphql.String},
		"snapshotId":      &graphql.Field{Type: graphql.String},
		"targets":         &graphql.Field{Type: graphql.NewList(graphql.String)},
		"reductions":      &graphql.Field{Type: graphql.NewList(reductionType)},
		"budgetInitial":   &graphql.Field{Type: graphql.Int},
		"budgetRemaining": &graphql.Field{Type: graphql.Int},
		"stepsRequested":  &graphql.Field{Type: graphql.Int},
		"stepsExecuted":   &graphql.Field{Type: graphql.Int},
		"stepTotals":      &graphql.Field{Type: graphql.NewList(graphql.Int)},
		"capacityBefore":  &graphql.Field{Type: graphql.Int},
		"capacityAfter":   &graphql.Field{Type: graphql.Int},
		"impact":          &graphql.Field{Type: impactType},
	},
})

var reportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CapacityReport",
	Fields: graphql.Fields{
		"totalBefore": &graphql.Field{Type: graphql.Int},
		"totalAfter":  &graphql.Field{Type: graphql.Int},
		"reduction":   &graphql.Field{Type: graphql.Int},
		"percent":     &graphql.Field{Type: graphql.Float},
		"edges":       &graphql.Field{Type: graphql.NewList(reductionType)},
	},
})

var affectedPathType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AffectedPath",
	Fields: graphql.Fields{
		"attacked": &graphql.Field{Type: graphql.String},
		"color":    &graphql.Field{Type: graphql.String},
		"nodes":    &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var edgeInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "EdgeInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"from": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"to":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
	},
})
