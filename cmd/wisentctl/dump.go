// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saferwall/wisent"
)

var dumpAsJSON bool

var dumpCmd = &cobra.Command{
	Use:   "dump <file.wisent>",
	Short: "Print the structure of a Wisent tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := wisent.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer m.Close()

		if dumpAsJSON {
			out, err := m.Tree.ToJSON()
			if err != nil {
				return fmt.Errorf("reconstructing json: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("value_capacity:   %d\n", m.Tree.ValueCapacity())
		fmt.Printf("argument_count:   %d (physical tag bytes)\n", m.Tree.ArgumentCount())
		fmt.Printf("expression_count: %d\n", m.Tree.ExpressionCount())
		fmt.Printf("string_fill:      %d\n", m.Tree.StringFill())
		return dumpExpression(m.Tree, 0, 0)
	},
}

func dumpExpression(tree *wisent.RootExpression, index uint64, depth int) error {
	e := tree.Expression(index)
	name, err := tree.Symbol(e)
	if err != nil {
		return err
	}
	fmt.Printf("%*s[%d] %s (children %d..%d)\n", depth*2, "", index, name, e.StartChild, e.EndChild)
	for i := uint64(0); i < e.ChildCount(); i++ {
		t, v := tree.Child(e, i)
		if t == wisent.ArgumentTypeExpression {
			if err := dumpExpression(tree, v.AsExpressionIndex(), depth+1); err != nil {
				return err
			}
			continue
		}
		fmt.Printf("%*s  %s\n", depth*2, "", t.String())
	}
	return nil
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpAsJSON, "json", false, "reconstruct and print the original JSON instead of a structural dump")
}
