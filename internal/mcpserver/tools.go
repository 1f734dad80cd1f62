package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yacobolo/vpcss/internal/placement"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

func (s *Server) registerBlockTools() {
	s.mcp.AddTool(mcp.NewTool("register_block",
		mcp.WithDescription("Register a block from its attributes. Top-level keys are the base style, 'viewports' holds breakpoint overrides."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithObject("attributes", mcp.Description("Block attributes")),
	), s.handleRegisterBlock)

	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List registered blocks and whether they have unsaved edits"),
	), s.handleListBlocks)

	s.mcp.AddTool(mcp.NewTool("save_block",
		mcp.WithDescription("Commit pending edits of a block into its saved styles and return the new attributes"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleSaveBlock)

	s.mcp.AddTool(mcp.NewTool("restore_block",
		mcp.WithDescription("Discard pending edits of a block"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleRestoreBlock)

	s.mcp.AddTool(mcp.NewTool("remove_block",
		mcp.WithDescription("Forget a block"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithDestructiveHintAnnotation(true),
	), s.handleRemoveBlock)
}

func (s *Server) registerStyleTools() {
	s.mcp.AddTool(mcp.NewTool("apply_style",
		mcp.WithDescription("Make a property resolve to a value at a breakpoint. Omit value to delete the property there."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("breakpoint", mcp.Description("Breakpoint in px"), mcp.Required()),
		mcp.WithString("property", mcp.Description("Dotted property path, e.g. style.width"), mcp.Required()),
		mcp.WithAny("value", mcp.Description("Desired value: a string, number, array or object")),
		mcp.WithBoolean("manual", mcp.Description("Pin the value to this breakpoint instead of where it is defined")),
	), s.handleApplyStyle)

	s.mcp.AddTool(mcp.NewTool("resolve_block",
		mcp.WithDescription("Return the effective style of a block per breakpoint, or at one breakpoint"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("breakpoint", mcp.Description("Breakpoint in px (optional)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleResolveBlock)

	s.mcp.AddTool(mcp.NewTool("compile_block",
		mcp.WithDescription("Compile a block into media-query CSS"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("format", mcp.Description("css (default) or json"), mcp.Enum("css", "json")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleCompileBlock)
}

func (s *Server) handleRegisterBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	attrs, err := objectArg(req.GetArguments(), "attributes")
	if err != nil {
		return nil, err
	}
	s.editor.Register(id, attrs)
	if err := s.persist(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Block %s registered", id)), nil
}

type blockSummary struct {
	ID          string `json:"id"`
	Breakpoints []int  `json:"breakpoints"`
	Dirty       bool   `json:"dirty"`
}

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries := []blockSummary{}
	for _, id := range s.editor.IDs() {
		b, err := s.editor.Snapshot(id)
		if err != nil {
			continue
		}
		summaries = append(summaries, blockSummary{
			ID:          id,
			Breakpoints: s.editor.Registry().Resolve(b.Saves, b.Changes, b.Removes),
			Dirty:       b.Dirty(),
		})
	}
	return jsonResult(summaries)
}

func (s *Server) handleApplyStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	property := style.ParsePath(req.GetString("property", ""))
	edit := placement.Edit{
		Breakpoint: req.GetInt("breakpoint", 0),
		Manual:     req.GetBool("manual", false),
		Property:   property,
		Desired:    req.GetArguments()["value"],
	}
	if err := s.editor.Apply(id, edit); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id); err != nil {
		return nil, err
	}
	valids, err := s.editor.Valids(id)
	if err != nil {
		return nil, err
	}
	v, _ := style.Get(valids.At(edit.Breakpoint), property)
	return jsonResult(map[string]any{
		"blockId":    id,
		"breakpoint": edit.Breakpoint,
		"property":   property.String(),
		"value":      v,
	})
}

func (s *Server) handleSaveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	saves, err := s.editor.Save(id)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id); err != nil {
		return nil, err
	}
	return jsonResult(viewport.ToAttributes(saves))
}

func (s *Server) handleRestoreBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	if err := s.editor.Restore(id); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Block %s restored", id)), nil
}

func (s *Server) handleRemoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	if !s.editor.Remove(id) {
		return nil, fmt.Errorf("block %s not found", id)
	}
	if s.store != nil {
		if err := s.store.Delete(ctx, id); err != nil {
			tracer().Infof("mcp: block %s was not stored: %v", id, err)
		}
	}
	return textResult(fmt.Sprintf("Block %s removed", id)), nil
}

func (s *Server) handleResolveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	valids, err := s.editor.Valids(id)
	if err != nil {
		return nil, err
	}
	if _, ok := req.GetArguments()["breakpoint"]; ok {
		return jsonResult(valids.At(req.GetInt("breakpoint", 0)))
	}
	return jsonResult(valids)
}

func (s *Server) handleCompileBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	res, err := s.editor.Compile(id)
	if err != nil {
		return nil, err
	}
	if req.GetString("format", "css") == "json" {
		return jsonResult(res)
	}
	return textResult(res.Stylesheet()), nil
}
