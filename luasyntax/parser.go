// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package luasyntax

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"zb.256lights.llc/luaparse/lualex"
)

// depthLimit is the maximum recursion depth for syntax constructs.
//
// Equivalent to `LUAI_MAXCCALLS` in upstream Lua.
const depthLimit = 200

// Parse converts a Lua source file into a syntax tree.
// chunkName is used in error messages.
//
// Parse stops at the first error.
// A malformed token is reported as a [*lualex.LexicalError]
// (retrievable with [errors.As]);
// a token stream that does not conform to the grammar
// is reported as a [*SyntaxError].
func Parse(chunkName string, r io.ByteScanner) (*Block, error) {
	p := &parser{
		chunk:    chunkName,
		ls:       lualex.NewScanner(r),
		lastLine: 1,
	}
	p.advance()
	b, err := p.block()
	if err != nil {
		return nil, err
	}
	if p.curr.Kind != lualex.EOFToken {
		return nil, p.expected(lualex.EOFToken)
	}
	return &b, nil
}

// ParseString converts Lua source code into a syntax tree.
// It is equivalent to calling [Parse] with a [strings.Reader].
func ParseString(chunkName, source string) (*Block, error) {
	return Parse(chunkName, strings.NewReader(source))
}

// ParseExp parses a single Lua expression
// that must make up the whole input.
// Errors are reported as in [Parse].
func ParseExp(chunkName string, r io.ByteScanner) (Exp, error) {
	p := &parser{
		chunk:    chunkName,
		ls:       lualex.NewScanner(r),
		lastLine: 1,
	}
	p.advance()
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.curr.Kind != lualex.EOFToken {
		return nil, p.expected(lualex.EOFToken)
	}
	return x, nil
}

// ParseExpString parses a single Lua expression from a string.
// It is equivalent to calling [ParseExp] with a [strings.Reader].
func ParseExpString(chunkName, source string) (Exp, error) {
	return ParseExp(chunkName, strings.NewReader(source))
}

// parser is the in-progress state of a [Parse] call.
type parser struct {
	chunk string
	ls    *lualex.Scanner
	curr  lualex.Token
	err   error
	next  lualex.Token
	// currEnd and nextEnd are the positions just past curr and next.
	currEnd lualex.Position
	nextEnd lualex.Position
	// lastLine is the line on which the previous token ended.
	lastLine int

	depth int
	// nesting is the number of brackets enclosing the current token
	// within the innermost function body.
	nesting int
}

// advance scans the next token.
func (p *parser) advance() {
	p.lastLine = max(p.currEnd.Line, 1)
	if p.next.Kind != lualex.ErrorToken {
		p.curr, p.currEnd = p.next, p.nextEnd
		p.next = lualex.Token{}
		return
	}
	p.curr, p.err = p.ls.Scan()
	p.currEnd = p.ls.End()
}

// peek returns the token after the current one
// without advancing the parser.
func (p *parser) peek() lualex.Token {
	if p.next.Kind == lualex.ErrorToken {
		p.next, p.err = p.ls.Scan()
		p.nextEnd = p.ls.End()
	}
	return p.next
}

// enter increments the nesting depth.
// Callers must call p.leave when enter returns a nil error.
func (p *parser) enter() error {
	p.depth++
	if p.depth > depthLimit {
		p.depth--
		return p.fail(ErrTooDeep)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// block parses a sequence of statements
// up to (but not including) a token that ends the block.
func (p *parser) block() (Block, error) {
	var b Block
	for !isBlockFollow(p.curr.Kind) && p.curr.Kind != lualex.UntilToken {
		if p.curr.Kind == lualex.ReturnToken {
			// 'return' must be the last statement.
			stat, err := p.returnStatement()
			if err != nil {
				return Block{}, err
			}
			b.Stats = append(b.Stats, stat)
			break
		}
		stat, err := p.statement()
		if err != nil {
			return Block{}, err
		}
		b.Stats = append(b.Stats, stat)
	}
	return b, nil
}

func (p *parser) statement() (Stat, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.curr.Kind {
	case lualex.SemiToken:
		p.advance()
		return new(EmptyStat), nil
	case lualex.IfToken:
		return p.ifStatement()
	case lualex.WhileToken:
		start := p.curr.Position
		p.advance()
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.checkNext(lualex.DoToken); err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		if err := p.checkMatch(start, lualex.WhileToken, lualex.EndToken); err != nil {
			return nil, err
		}
		return &WhileStat{Cond: cond, Body: body}, nil
	case lualex.DoToken:
		start := p.curr.Position
		p.advance()
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		if err := p.checkMatch(start, lualex.DoToken, lualex.EndToken); err != nil {
			return nil, err
		}
		return &DoStat{Body: body}, nil
	case lualex.ForToken:
		return p.forStatement()
	case lualex.RepeatToken:
		start := p.curr.Position
		p.advance()
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		if err := p.checkMatch(start, lualex.RepeatToken, lualex.UntilToken); err != nil {
			return nil, err
		}
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &RepeatStat{Body: body, Cond: cond}, nil
	case lualex.FunctionToken:
		return p.functionStatement()
	case lualex.LocalToken:
		p.advance()
		if p.curr.Kind == lualex.FunctionToken {
			return p.localFunction()
		}
		return p.localStatement()
	case lualex.LabelToken:
		p.advance()
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		if err := p.checkNext(lualex.LabelToken); err != nil {
			return nil, err
		}
		return &LabelStat{Name: name}, nil
	case lualex.BreakToken:
		p.advance()
		return new(BreakStat), nil
	case lualex.GotoToken:
		p.advance()
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		return &GotoStat{Name: name}, nil
	default:
		return p.exprStatement()
	}
}

// ifStatement parses an if statement.
//
//	ifstat ::= IF cond THEN block {ELSEIF cond THEN block} [ELSE block] END
func (p *parser) ifStatement() (Stat, error) {
	start := p.curr.Position
	p.advance()
	stat := new(IfStat)
	var err error
	stat.If, err = p.testThenBlock()
	if err != nil {
		return nil, err
	}
	for p.curr.Kind == lualex.ElseifToken {
		p.advance()
		clause, err := p.testThenBlock()
		if err != nil {
			return nil, err
		}
		stat.ElseIfs = append(stat.ElseIfs, clause)
	}
	if p.curr.Kind == lualex.ElseToken {
		p.advance()
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		stat.Else = &body
	}
	if err := p.checkMatch(start, lualex.IfToken, lualex.EndToken); err != nil {
		return nil, err
	}
	return stat, nil
}

func (p *parser) testThenBlock() (IfClause, error) {
	cond, err := p.expression()
	if err != nil {
		return IfClause{}, err
	}
	if err := p.checkNext(lualex.ThenToken); err != nil {
		return IfClause{}, err
	}
	body, err := p.block()
	if err != nil {
		return IfClause{}, err
	}
	return IfClause{Cond: cond, Body: body}, nil
}

// forStatement parses either kind of for loop.
//
//	forstat ::= FOR (fornum | forlist) END
func (p *parser) forStatement() (Stat, error) {
	start := p.curr.Position
	p.advance()
	name, err := p.name()
	if err != nil {
		return nil, err
	}

	var stat Stat
	switch p.curr.Kind {
	case lualex.AssignToken:
		p.advance()
		fs := &NumericForStat{Name: name}
		fs.Start, err = p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.checkNext(lualex.CommaToken); err != nil {
			return nil, err
		}
		fs.End, err = p.expression()
		if err != nil {
			return nil, err
		}
		if p.curr.Kind == lualex.CommaToken {
			p.advance()
			fs.Step, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		if err := p.checkNext(lualex.DoToken); err != nil {
			return nil, err
		}
		fs.Body, err = p.block()
		if err != nil {
			return nil, err
		}
		stat = fs
	case lualex.CommaToken, lualex.InToken:
		gs := &GenericForStat{Names: []string{name}}
		for p.curr.Kind == lualex.CommaToken {
			p.advance()
			name, err := p.name()
			if err != nil {
				return nil, err
			}
			gs.Names = append(gs.Names, name)
		}
		if err := p.checkNext(lualex.InToken); err != nil {
			return nil, err
		}
		gs.Exps, err = p.expressionList()
		if err != nil {
			return nil, err
		}
		if err := p.checkNext(lualex.DoToken); err != nil {
			return nil, err
		}
		gs.Body, err = p.block()
		if err != nil {
			return nil, err
		}
		stat = gs
	default:
		return nil, p.expected(lualex.AssignToken, lualex.InToken)
	}

	if err := p.checkMatch(start, lualex.ForToken, lualex.EndToken); err != nil {
		return nil, err
	}
	return stat, nil
}

// functionStatement parses a function declaration.
//
//	funcstat ::= FUNCTION funcname body
//	funcname ::= NAME {'.' NAME} [':' NAME]
func (p *parser) functionStatement() (Stat, error) {
	start := p.curr.Position
	p.advance()
	first, err := p.name()
	if err != nil {
		return nil, err
	}
	stat := &FunctionStat{Path: []string{first}}
	for p.curr.Kind == lualex.DotToken {
		p.advance()
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		stat.Path = append(stat.Path, name)
	}
	if p.curr.Kind == lualex.ColonToken {
		p.advance()
		stat.Method, err = p.name()
		if err != nil {
			return nil, err
		}
	}
	stat.Func, err = p.functionBody(start)
	if err != nil {
		return nil, err
	}
	return stat, nil
}

func (p *parser) localFunction() (Stat, error) {
	start := p.curr.Position
	p.advance()
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	body, err := p.functionBody(start)
	if err != nil {
		return nil, err
	}
	return &LocalFunctionStat{Name: name, Func: body}, nil
}

// localStatement parses a local variable declaration
// after the "local" keyword.
//
//	stat ::= LOCAL attnamelist ['=' explist]
//	attnamelist ::= NAME attrib {',' NAME attrib}
func (p *parser) localStatement() (Stat, error) {
	stat := new(LocalStat)
	for {
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		attrib, err := p.attribute()
		if err != nil {
			return nil, err
		}
		stat.Names = append(stat.Names, AttName{Name: name, Attrib: attrib})
		if p.curr.Kind != lualex.CommaToken {
			break
		}
		p.advance()
	}
	if p.curr.Kind == lualex.AssignToken {
		p.advance()
		var err error
		stat.Values, err = p.expressionList()
		if err != nil {
			return nil, err
		}
	}
	return stat, nil
}

// attribute parses an optional "<name>" variable attribute.
func (p *parser) attribute() (string, error) {
	if p.curr.Kind != lualex.LessToken {
		return "", nil
	}
	p.advance()
	tok := p.curr
	attrib, err := p.name()
	if err != nil {
		return "", err
	}
	if err := p.checkNext(lualex.GreaterToken); err != nil {
		return "", err
	}
	if attrib != "const" && attrib != "close" {
		return "", &SyntaxError{
			Chunk:    p.chunk,
			Position: tok.Position,
			Found:    tok,
			Err:      fmt.Errorf("%w '%s'", ErrUnknownAttribute, attrib),
		}
	}
	return attrib, nil
}

func (p *parser) returnStatement() (Stat, error) {
	p.advance()
	stat := new(ReturnStat)
	if !isBlockFollow(p.curr.Kind) && p.curr.Kind != lualex.UntilToken && p.curr.Kind != lualex.SemiToken {
		var err error
		stat.Values, err = p.expressionList()
		if err != nil {
			return nil, err
		}
	}
	if p.curr.Kind == lualex.SemiToken {
		p.advance()
	}
	return stat, nil
}

// exprStatement parses a function call or an assignment.
//
//	stat ::= func | assignment
func (p *parser) exprStatement() (Stat, error) {
	e, err := p.suffixedExpression()
	if err != nil {
		return nil, err
	}
	if p.curr.Kind != lualex.AssignToken && p.curr.Kind != lualex.CommaToken {
		call, ok := e.(*FunctionCall)
		if !ok {
			return nil, p.fail(ErrInvalidStatement)
		}
		return &CallStat{Call: call}, nil
	}

	if !isAssignable(e) {
		return nil, p.fail(ErrInvalidStatement)
	}
	stat := &AssignStat{Targets: []Exp{e}}
	for p.curr.Kind == lualex.CommaToken {
		p.advance()
		e, err := p.suffixedExpression()
		if err != nil {
			return nil, err
		}
		if !isAssignable(e) {
			return nil, p.fail(ErrInvalidStatement)
		}
		stat.Targets = append(stat.Targets, e)
	}
	if err := p.checkNext(lualex.AssignToken); err != nil {
		return nil, err
	}
	stat.Values, err = p.expressionList()
	if err != nil {
		return nil, err
	}
	return stat, nil
}

func isAssignable(e Exp) bool {
	switch e.(type) {
	case *NameExp, *IndexExp:
		return true
	default:
		return false
	}
}

// expressionList parses one or more comma-separated expressions.
func (p *parser) expressionList() ([]Exp, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	list := []Exp{e}
	for p.curr.Kind == lualex.CommaToken {
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}

func (p *parser) expression() (Exp, error) {
	e, _, err := p.subExpression(0)
	return e, err
}

// subExpression parses an expression
// whose binary operators all bind tighter than limit.
// It returns the first binary operator that it did not consume
// (or zero if the next token is not a binary operator).
//
//	subexpr ::= (simpleexp | unop subexpr) {binop subexpr}
func (p *parser) subExpression(limit int) (Exp, BinaryOperator, error) {
	if err := p.enter(); err != nil {
		return nil, 0, err
	}
	defer p.leave()

	var e Exp
	if uop, ok := toUnaryOperator(p.curr.Kind); ok {
		p.advance()
		x, _, err := p.subExpression(unaryPrecedence)
		if err != nil {
			return nil, 0, err
		}
		e = &UnaryExp{Op: uop, X: x}
	} else {
		var err error
		e, err = p.simpleExpression()
		if err != nil {
			return nil, 0, err
		}
	}

	// Expand while operators have priorities higher than limit.
	op, _ := toBinaryOperator(p.curr.Kind)
	for op != 0 && int(operatorPrecedence[op].left) > limit {
		p.advance()
		// Read sub-expression with higher priority.
		y, nextOp, err := p.subExpression(int(operatorPrecedence[op].right))
		if err != nil {
			return nil, 0, err
		}
		e = &BinaryExp{Op: op, X: e, Y: y}
		op = nextOp
	}
	return e, op, nil
}

// simpleExpression parses a literal, a function, a table constructor,
// or a suffixed expression.
func (p *parser) simpleExpression() (Exp, error) {
	switch p.curr.Kind {
	case lualex.IntegerToken:
		i, err := lualex.ParseInt(p.curr.Value)
		if err != nil {
			return nil, fmt.Errorf("%s:%v: %v", displayChunkName(p.chunk), p.curr.Position, err)
		}
		p.advance()
		return &IntExp{Value: i}, nil
	case lualex.FloatToken:
		f, err := lualex.ParseNumber(p.curr.Value)
		if err != nil {
			return nil, fmt.Errorf("%s:%v: %v", displayChunkName(p.chunk), p.curr.Position, err)
		}
		p.advance()
		return &FloatExp{Value: f}, nil
	case lualex.StringToken:
		s := p.curr.Value
		p.advance()
		return &StringExp{Value: s}, nil
	case lualex.NilToken:
		p.advance()
		return new(NilExp), nil
	case lualex.TrueToken:
		p.advance()
		return &BoolExp{Value: true}, nil
	case lualex.FalseToken:
		p.advance()
		return &BoolExp{Value: false}, nil
	case lualex.VarargToken:
		p.advance()
		return new(VarargExp), nil
	case lualex.LBraceToken:
		return p.tableConstructor()
	case lualex.FunctionToken:
		start := p.curr.Position
		p.advance()
		body, err := p.functionBody(start)
		if err != nil {
			return nil, err
		}
		return &FunctionExp{Func: body}, nil
	default:
		return p.suffixedExpression()
	}
}

// primaryExpression parses a name or a parenthesized expression.
//
//	primaryexp ::= NAME | '(' expr ')'
func (p *parser) primaryExpression() (Exp, error) {
	switch p.curr.Kind {
	case lualex.IdentifierToken:
		name := p.curr.Value
		p.advance()
		return &NameExp{Name: name}, nil
	case lualex.LParenToken:
		start := p.curr.Position
		p.advance()
		p.nesting++
		defer func() { p.nesting-- }()
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.checkMatch(start, lualex.LParenToken, lualex.RParenToken); err != nil {
			return nil, err
		}
		return &ParenExp{X: x}, nil
	default:
		return nil, p.fail(ErrUnexpectedSymbol)
	}
}

// suffixedExpression parses a primary expression
// followed by any number of field selectors, indices, and calls.
//
//	suffixedexp ::= primaryexp { '.' NAME | '[' exp ']' | ':' NAME funcargs | funcargs }
func (p *parser) suffixedExpression() (Exp, error) {
	e, err := p.primaryExpression()
	if err != nil {
		return nil, err
	}
	for {
		switch p.curr.Kind {
		case lualex.DotToken:
			p.advance()
			name, err := p.name()
			if err != nil {
				return nil, err
			}
			e = &IndexExp{X: e, Key: &StringExp{Value: name}}
		case lualex.LBracketToken:
			start := p.curr.Position
			p.advance()
			p.nesting++
			key, err := p.expression()
			p.nesting--
			if err != nil {
				return nil, err
			}
			if err := p.checkMatch(start, lualex.LBracketToken, lualex.RBracketToken); err != nil {
				return nil, err
			}
			e = &IndexExp{X: e, Key: key}
		case lualex.ColonToken:
			p.advance()
			name, err := p.name()
			if err != nil {
				return nil, err
			}
			args, err := p.functionArguments()
			if err != nil {
				return nil, err
			}
			e = &FunctionCall{Func: e, Method: name, Args: args}
		case lualex.LParenToken:
			if p.nesting == 0 && p.curr.Position.Line != p.lastLine {
				// A parenthesis on a new line starts a new statement.
				return e, nil
			}
			fallthrough
		case lualex.StringToken, lualex.LBraceToken:
			args, err := p.functionArguments()
			if err != nil {
				return nil, err
			}
			e = &FunctionCall{Func: e, Args: args}
		default:
			return e, nil
		}
	}
}

// functionArguments parses the arguments of a call.
//
//	funcargs ::= '(' [explist] ')' | constructor | STRING
func (p *parser) functionArguments() ([]Exp, error) {
	switch p.curr.Kind {
	case lualex.StringToken:
		s := p.curr.Value
		p.advance()
		return []Exp{&StringExp{Value: s}}, nil
	case lualex.LBraceToken:
		t, err := p.tableConstructor()
		if err != nil {
			return nil, err
		}
		return []Exp{t}, nil
	case lualex.LParenToken:
		start := p.curr.Position
		p.advance()
		if p.curr.Kind == lualex.RParenToken {
			p.advance()
			return nil, nil
		}
		p.nesting++
		defer func() { p.nesting-- }()
		args, err := p.expressionList()
		if err != nil {
			return nil, err
		}
		if err := p.checkMatch(start, lualex.LParenToken, lualex.RParenToken); err != nil {
			return nil, err
		}
		return args, nil
	default:
		return nil, p.expectedf("function arguments")
	}
}

// tableConstructor parses a table constructor.
//
//	constructor ::= '{' [field {sep field} [sep]] '}'
//	sep ::= ',' | ';'
func (p *parser) tableConstructor() (Exp, error) {
	start := p.curr.Position
	if err := p.checkNext(lualex.LBraceToken); err != nil {
		return nil, err
	}
	p.nesting++
	defer func() { p.nesting-- }()
	t := new(TableExp)
	for p.curr.Kind != lualex.RBraceToken {
		f, err := p.field()
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, f)
		if p.curr.Kind != lualex.CommaToken && p.curr.Kind != lualex.SemiToken {
			break
		}
		p.advance()
	}
	if err := p.checkMatch(start, lualex.LBraceToken, lualex.RBraceToken); err != nil {
		return nil, err
	}
	return t, nil
}

// field parses a single table constructor entry.
//
//	field ::= '[' exp ']' '=' exp | NAME '=' exp | exp
func (p *parser) field() (Field, error) {
	switch {
	case p.curr.Kind == lualex.IdentifierToken && p.peek().Kind == lualex.AssignToken:
		name := p.curr.Value
		p.advance()
		p.advance()
		v, err := p.expression()
		if err != nil {
			return Field{}, err
		}
		return Field{Key: &StringExp{Value: name}, Value: v}, nil
	case p.curr.Kind == lualex.LBracketToken:
		start := p.curr.Position
		p.advance()
		k, err := p.expression()
		if err != nil {
			return Field{}, err
		}
		if err := p.checkMatch(start, lualex.LBracketToken, lualex.RBracketToken); err != nil {
			return Field{}, err
		}
		if err := p.checkNext(lualex.AssignToken); err != nil {
			return Field{}, err
		}
		v, err := p.expression()
		if err != nil {
			return Field{}, err
		}
		return Field{Key: k, Value: v}, nil
	default:
		v, err := p.expression()
		if err != nil {
			return Field{}, err
		}
		return Field{Value: v}, nil
	}
}

// functionBody parses a parameter list and a block.
// start is the position of the "function" keyword.
//
//	body ::= '(' parlist ')' block END
//	parlist ::= [NAME {',' NAME} [',' '...'] | '...']
func (p *parser) functionBody(start lualex.Position) (Funcbody, error) {
	outerNesting := p.nesting
	p.nesting = 0
	defer func() { p.nesting = outerNesting }()

	var f Funcbody
	if err := p.checkNext(lualex.LParenToken); err != nil {
		return Funcbody{}, err
	}
	if p.curr.Kind != lualex.RParenToken {
		for {
			if p.curr.Kind == lualex.VarargToken {
				p.advance()
				f.IsVararg = true
				break
			}
			if p.curr.Kind != lualex.IdentifierToken {
				return Funcbody{}, p.expected(lualex.IdentifierToken)
			}
			f.Params = append(f.Params, p.curr.Value)
			p.advance()
			if p.curr.Kind != lualex.CommaToken {
				break
			}
			p.advance()
		}
	}
	if err := p.checkNext(lualex.RParenToken); err != nil {
		return Funcbody{}, err
	}
	var err error
	f.Body, err = p.block()
	if err != nil {
		return Funcbody{}, err
	}
	if err := p.checkMatch(start, lualex.FunctionToken, lualex.EndToken); err != nil {
		return Funcbody{}, err
	}
	return f, nil
}

// name consumes an identifier token and returns its value.
func (p *parser) name() (string, error) {
	if p.curr.Kind != lualex.IdentifierToken {
		return "", p.expected(lualex.IdentifierToken)
	}
	v := p.curr.Value
	p.advance()
	return v, nil
}

// checkNext consumes the current token if it is of the given kind
// or returns an error otherwise.
func (p *parser) checkNext(k lualex.TokenKind) error {
	if p.curr.Kind != k {
		return p.expected(k)
	}
	p.advance()
	return nil
}

// checkMatch verifies that the current token is the closing token
// for a corresponding opening token at the given position.
// If the current token matches, then it is consumed.
// Otherwise, checkMatch returns an error.
func (p *parser) checkMatch(start lualex.Position, open, close lualex.TokenKind) error {
	if p.curr.Kind == close {
		p.advance()
		return nil
	}
	err := p.expected(close)
	if se := (*SyntaxError)(nil); errors.As(err, &se) && p.curr.Position.Line != start.Line {
		se.note = fmt.Sprintf("(to close %s at line %d)", quoteKind(open), start.Line)
	}
	return err
}

// expected returns an error reporting that one of the given token kinds
// was expected at the current token.
func (p *parser) expected(kinds ...lualex.TokenKind) error {
	what := make([]string, 0, len(kinds))
	for _, k := range kinds {
		what = append(what, quoteKind(k))
	}
	return p.expectedf(what...)
}

func (p *parser) expectedf(what ...string) error {
	if err := p.scanError(); err != nil {
		return err
	}
	return &SyntaxError{
		Chunk:    p.chunk,
		Position: p.curr.Position,
		Found:    p.curr,
		Expected: what,
	}
}

// fail returns a [*SyntaxError] for the current token.
func (p *parser) fail(err error) error {
	if err := p.scanError(); err != nil {
		return err
	}
	return &SyntaxError{
		Chunk:    p.chunk,
		Position: p.curr.Position,
		Found:    p.curr,
		Err:      err,
	}
}

// scanError returns the error that stopped the scanner, if any,
// annotated with the chunk name.
// Lexical errors take precedence over syntax errors
// because the parser cannot see past them.
func (p *parser) scanError() error {
	if p.err == nil {
		return nil
	}
	if lexErr := (*lualex.LexicalError)(nil); errors.As(p.err, &lexErr) && lexErr.Position.IsValid() {
		return fmt.Errorf("%s:%w", displayChunkName(p.chunk), p.err)
	}
	return fmt.Errorf("%s: %w", displayChunkName(p.chunk), p.err)
}

// isBlockFollow reports whether a token terminates a block.
//
// Mostly equivalent to `block_follow` in upstream Lua,
// but punts the withuntil parameter behavior to the caller.
func isBlockFollow(k lualex.TokenKind) bool {
	return k == lualex.ElseToken ||
		k == lualex.ElseifToken ||
		k == lualex.EndToken ||
		k == lualex.EOFToken ||
		k == lualex.ErrorToken
}
