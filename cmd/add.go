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
)

var addCmd *cobra.Command = &cobra.Command{
	Use:   "add [event]...",
	Short: "Append one or more events to the tree and commit them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	Root.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	tree, closeF, err := cmdCtx.openTree()
	if err != nil {
		return err
	}
	defer closeF()

	hasherF, err := cmdCtx.hasherF()
	if err != nil {
		return err
	}
	hasher := hasherF()

	first := tree.Size(true)
	for _, arg := range args {
		if err := tree.Append(hasher.Do([]byte(arg))); err != nil {
			return err
		}
	}

	root, err := tree.Commit()
	if err != nil {
		return err
	}

	fmt.Printf("\nAppended %d event(s):\n\n", len(args))
	for i, arg := range args {
		fmt.Printf(" Index: %d Digest: %x\n", first+uint64(i), hasher.Do([]byte(arg)))
	}
	fmt.Printf("\n Root: %x\n Size: %d\n\n", root, tree.Size(false))

	return nil
}
