/*
   Copyright 2024 Vertree Contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertree/vertree/merkle/staged"
)

var verifyCmd *cobra.Command = &cobra.Command{
	Use:   "verify",
	Short: "Check a membership proof against an expected root",
	RunE:  runVerify,
}

var (
	verifyIndex uint64
	verifyLeaf  string
	verifyRoot  string
	verifyPath  string
)

func init() {
	verifyCmd.Flags().Uint64Var(&verifyIndex, "index", 0, "Index of the proven leaf")
	verifyCmd.Flags().StringVar(&verifyLeaf, "leaf", "", "Hex digest of the proven leaf")
	verifyCmd.Flags().StringVar(&verifyRoot, "root", "", "Hex digest of the expected root")
	verifyCmd.Flags().StringVar(&verifyPath, "path", "", "Comma-separated hex side nodes, root-first")
	verifyCmd.MarkFlagRequired("leaf")
	verifyCmd.MarkFlagRequired("root")
	verifyCmd.MarkFlagRequired("path")

	Root.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	leaf, err := digestParse(verifyLeaf)
	if err != nil {
		return err
	}
	root, err := digestParse(verifyRoot)
	if err != nil {
		return err
	}
	sideNodes, err := pathParse(verifyPath)
	if err != nil {
		return err
	}

	hasherF, err := cmdCtx.hasherF()
	if err != nil {
		return err
	}

	path := staged.SiblingPath{SideNodes: sideNodes, Root: root, Index: verifyIndex}
	if !path.Verify(leaf, verifyIndex, root, hasherF()) {
		return fmt.Errorf("proof does NOT verify")
	}

	fmt.Printf("\nVerify: OK\n\n")
	return nil
}
