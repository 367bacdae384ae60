/*
Package blueprint declares views as data.

A Blueprint is a YAML document with a root template and the components it may
instantiate:

	name: todo
	components:
	  - selector: todo-item
	    encapsulation: none
	    template:
	      - element: li
	        children:
	          - text: "{{label}}"
	template:
	  - element: ul
	    children:
	      - each: items
	        as: item
	        children:
	          - element: li
	            attrs: {class: "{{item.state}}"}
	            children:
	              - text: "{{item.title}}"
	  - if: "!items"
	    children:
	      - text: nothing to do

Compile turns a Blueprint into a Program whose templates drive the engine through
the instruction set. Slot counts are computed from the template tree.
*/
package blueprint
