// Package filter translates AIP-160 icon filters into SQL conditions.
//
// Conditions are written against the icon row i and its category c. Label
// fields match when any label of the icon matches, so NOT and AND combine
// per icon.
package filter

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Declarations returns the fields an icon filter may reference.
func Declarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("id", filtering.TypeInt),
		filtering.DeclareIdent("category", filtering.TypeInt),
		filtering.DeclareIdent("category_name", filtering.TypeString),
		filtering.DeclareIdent("label", filtering.TypeString),
		filtering.DeclareIdent("text", filtering.TypeString),
		filtering.DeclareIdent("key", filtering.TypeString),
		filtering.DeclareIdent("group", filtering.TypeBool),
	)
}

// SQLCondition is a WHERE clause fragment with its positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition matches everything.
func (c SQLCondition) Empty() bool {
	return c.Clause == ""
}

// column is a filter field of the index query. Label columns live on
// icon_labels rows and are tested per icon through an EXISTS subquery.
type column struct {
	name     string
	perLabel bool
}

var columns = map[string]column{
	"id":            {name: "i.id"},
	"category":      {name: "i.category_id"},
	"category_name": {name: "c.name"},
	"label":         {name: "l.label_name", perLabel: true},
	"text":          {name: "l.text", perLabel: true},
	"key":           {name: "l.key", perLabel: true},
	"group":         {name: "l.is_group", perLabel: true},
}

// labelExists wraps a condition on icon_labels so it holds when any label
// of the icon matches.
const labelExists = "EXISTS (SELECT 1 FROM icon_labels l WHERE l.icon_id = i.id AND %s)"

func (c column) clause(cond string) string {
	if c.perLabel {
		return fmt.Sprintf(labelExists, cond)
	}
	return cond
}

// Parse parses a filter expression. An empty expression yields an empty
// condition. Invalid expressions fail with CodeInvalidFilter.
func Parse(filter string) (SQLCondition, error) {
	if strings.TrimSpace(filter) == "" {
		return SQLCondition{}, nil
	}

	decls, err := Declarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return SQLCondition{}, invalid(filter, err)
	}
	cond, err := translateExpr(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return SQLCondition{}, invalid(filter, err)
	}
	return cond, nil
}

func invalid(filter string, err error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeInvalidFilter, "invalid filter", map[string]string{"filter": filter}, err)
}

func translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (SQLCondition, error) {
	switch call.Function {
	case filtering.FunctionAnd:
		return translateJunction(call.Args, "AND")
	case filtering.FunctionOr:
		return translateJunction(call.Args, "OR")
	case filtering.FunctionNot:
		return translateNot(call.Args)
	case filtering.FunctionEquals:
		return translateComparison(call.Args, "=")
	case filtering.FunctionNotEquals:
		return translateComparison(call.Args, "!=")
	case filtering.FunctionLessThan:
		return translateComparison(call.Args, "<")
	case filtering.FunctionLessEquals:
		return translateComparison(call.Args, "<=")
	case filtering.FunctionGreaterThan:
		return translateComparison(call.Args, ">")
	case filtering.FunctionGreaterEquals:
		return translateComparison(call.Args, ">=")
	case filtering.FunctionHas:
		return translateHas(call.Args)
	default:
		return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateJunction(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) < 2 {
		return SQLCondition{}, fmt.Errorf("%s requires at least 2 arguments", op)
	}
	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		cond, err := translateExpr(arg)
		if err != nil {
			return SQLCondition{}, err
		}
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	return SQLCondition{
		Clause: "(" + strings.Join(clauses, " "+op+" ") + ")",
		Params: params,
	}, nil
}

func translateNot(args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 1 {
		return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
}

func translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	column, err := columnFor(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: column.clause(fmt.Sprintf("%s %s ?", column.name, op)),
		Params: []any{value},
	}, nil
}

// translateHas maps the has operator on a text field to a substring match.
func translateHas(args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("has requires 2 arguments")
	}
	column, err := columnFor(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	text, ok := value.(string)
	if !ok {
		return SQLCondition{}, fmt.Errorf("has requires a string value")
	}
	return SQLCondition{
		Clause: column.clause(fmt.Sprintf("instr(%s, ?) > 0", column.name)),
		Params: []any{text},
	}, nil
}

func columnFor(e *expr.Expr) (column, error) {
	ident, ok := e.GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return column{}, fmt.Errorf("expected identifier, got %T", e.GetExprKind())
	}
	col, ok := columns[ident.IdentExpr.GetName()]
	if !ok {
		return column{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	return col, nil
}

func extractValue(e *expr.Expr) (any, error) {
	constant, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := constant.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		if kind.BoolValue {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
