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
	"strings"

	"github.com/spf13/cobra"
)

var proveCmd *cobra.Command = &cobra.Command{
	Use:   "prove",
	Short: "Produce the membership proof of a committed leaf",
	RunE:  runProve,
}

var proveIndex uint64

func init() {
	proveCmd.Flags().Uint64Var(&proveIndex, "index", 0, "Index of the leaf to prove")
	proveCmd.MarkFlagRequired("index")

	Root.AddCommand(proveCmd)
}

func runProve(cmd *cobra.Command, args []string) error {
	tree, closeF, err := cmdCtx.openTree()
	if err != nil {
		return err
	}
	defer closeF()

	leaf, err := tree.GetLeaf(proveIndex, false)
	if err != nil {
		return err
	}
	path, err := tree.SiblingPath(proveIndex, false)
	if err != nil {
		return err
	}

	fmt.Printf("\nMembership proof:\n\n")
	fmt.Printf(" Index: %d\n", path.Index)
	fmt.Printf(" Leaf: %x\n", leaf)
	fmt.Printf(" Root: %x\n", path.Root)
	fmt.Printf(" Path: %s\n\n", strings.Join(path.Export(), ","))

	return nil
}
