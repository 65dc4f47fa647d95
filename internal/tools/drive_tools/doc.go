// Package drive_tools provides MCP tools for Google Drive.
//
// Available tools:
//   - list_all_files_and_folders: list the direct children of a folder
//   - create_new_folder: create a folder inside a parent folder
//   - create_new_file: upload a plain-text file into a parent folder
//   - delete_folder_file_by_name: delete a child item by name
//
// Example tool usage:
//
//	create_new_file({
//	  parentFolderId: "1AbCdEf",
//	  fileName: "notes.txt",
//	  fileContent: "Chapter 3 draft"
//	})
package drive_tools
